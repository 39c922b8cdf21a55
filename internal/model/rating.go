package model

type Rating struct {
	UserID  int64
	MovieID int64

	// Nil score with Skipped=false is an in-progress state: the movie is
	// still considered unrated. Skipped=true means the user passed on it.
	Score   *float64
	Skipped bool
}
