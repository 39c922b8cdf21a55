package model

// RoomIDLen is the length of the generated room identifier.
// 9 chars over a 64-symbol alphabet gives ~54 bits of entropy.
const RoomIDLen = 9

type Room struct {
	ID        string
	Name      string
	IsPrivate bool
}
