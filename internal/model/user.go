package model

type User struct {
	ID         int64
	TelegramID string
	Username   string

	// Room the mini-app currently shows. Nil until the user opens one.
	CurrentRoom *string
}
