package model

import "time"

type Movie struct {
	ID               int64
	Title            string
	Year             int
	KinopoiskURL     string
	KinopoiskID      int64
	PosterURL        *string
	PosterPreviewURL *string
}

// RoomMovie is a movie together with its membership record in a room.
type RoomMovie struct {
	Movie
	RoomID         string
	AddedBy        int64
	AddedDate      time.Time
	DiscussionDate *time.Time
}

type UserScore struct {
	Username string
	Score    *float64
}

// HistoryEntry is one row of a room's watch history.
type HistoryEntry struct {
	Movie     Movie
	AddedDate time.Time
	AddedBy   string
	AvgScore  *float64
	MyScore   *float64
	Scores    []UserScore
}

type Poster struct {
	Filename string
	Content  []byte

	// Parent grouping key, the Kinopoisk numeric id as a string.
	MovieKey string
}

func (p Poster) GetFilename() string {
	return p.Filename
}

func (p Poster) GetContent() []byte {
	return p.Content
}

func (p Poster) GetParent() string {
	return p.MovieKey
}
