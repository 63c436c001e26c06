package library

import (
	"errors"
	"math"
	"time"

	"bookshelf/internal/entity"
)

const (
	libraryKey = "bookshelf_library"
	reviewsKey = "bookshelf_reviews"
	goalKey    = "bookshelf_reading_goal"

	DefaultGoalTarget = 12
)

var (
	ErrNotFound        = errors.New("book not in library")
	ErrInvalidShelf    = errors.New("invalid shelf")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5 in steps of 0.5")
	ErrInvalidGoal     = errors.New("goal target must be at least 1")
	ErrInvalidRecord   = errors.New("record id is required")
	ErrNoPageCount     = errors.New("book has no page count")
	ErrPersistence     = errors.New("persistence failure")
	ErrCorruptState    = errors.New("stored state is corrupt")
)

type Shelf string

const (
	WantToRead Shelf = "wantToRead"
	Reading    Shelf = "reading"
	Read       Shelf = "read"
)

// Shelves lists every shelf in display order.
var Shelves = []Shelf{Reading, WantToRead, Read}

func (s Shelf) Valid() bool {
	switch s {
	case WantToRead, Reading, Read:
		return true
	}
	return false
}

// ParseShelf validates a shelf name as it appears in URLs and stored blobs.
func ParseShelf(s string) (Shelf, error) {
	shelf := Shelf(s)
	if !shelf.Valid() {
		return "", ErrInvalidShelf
	}
	return shelf, nil
}

// Entry is a catalog record placed on a shelf.
type Entry struct {
	entity.Record
	AddedDate    time.Time  `json:"addedDate"`
	FinishedDate *time.Time `json:"finishedDate,omitempty"`
	Progress     int        `json:"progress"`
}

// ShelvedEntry is an entry annotated with the shelf holding it.
type ShelvedEntry struct {
	Entry
	Shelf Shelf `json:"shelf"`
}

// Library holds the three shelves. A book id is on at most one of them.
type Library struct {
	Reading    []Entry `json:"reading"`
	WantToRead []Entry `json:"wantToRead"`
	Read       []Entry `json:"read"`
}

func emptyLibrary() Library {
	return Library{Reading: []Entry{}, WantToRead: []Entry{}, Read: []Entry{}}
}

func (l *Library) normalize() {
	if l.Reading == nil {
		l.Reading = []Entry{}
	}
	if l.WantToRead == nil {
		l.WantToRead = []Entry{}
	}
	if l.Read == nil {
		l.Read = []Entry{}
	}
}

func (l *Library) shelf(s Shelf) *[]Entry {
	switch s {
	case Reading:
		return &l.Reading
	case WantToRead:
		return &l.WantToRead
	case Read:
		return &l.Read
	}
	return nil
}

// find returns the shelf and index of id, or ok=false.
func (l *Library) find(id string) (Shelf, int, bool) {
	for _, s := range Shelves {
		for i, e := range *l.shelf(s) {
			if e.ID == id {
				return s, i, true
			}
		}
	}
	return "", 0, false
}

// removeAll drops id from every shelf and reports whether anything was removed.
func (l *Library) removeAll(id string) bool {
	removed := false
	for _, s := range Shelves {
		entries := l.shelf(s)
		kept := (*entries)[:0:0]
		for _, e := range *entries {
			if e.ID == id {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		*entries = kept
	}
	return removed
}

// Count returns the total number of entries across all shelves.
func (l Library) Count() int {
	return len(l.Reading) + len(l.WantToRead) + len(l.Read)
}

type Review struct {
	Rating float64   `json:"rating"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type ReviewInput struct {
	Rating float64 `json:"rating" validate:"gte=0,lte=5,halfstep"`
	Text   string  `json:"text" validate:"max=10000"`
}

type ReadingGoal struct {
	Target int `json:"target"`
	Year   int `json:"year"`
}

type Stats struct {
	TotalBooks       int `json:"totalBooks"`
	BooksRead        int `json:"booksRead"`
	CurrentlyReading int `json:"currentlyReading"`
	WantToRead       int `json:"wantToRead"`
}

type GoalProgress struct {
	Goal      ReadingGoal `json:"goal"`
	BooksRead int         `json:"booksRead"`
	Percent   int         `json:"percent"`
	Remaining int         `json:"remaining"`
	Achieved  bool        `json:"achieved"`
}

// CurrentPage estimates the page reached from the progress percent.
func (e Entry) CurrentPage() int {
	return int(math.Round(float64(e.Progress*e.PageCount) / 100))
}
