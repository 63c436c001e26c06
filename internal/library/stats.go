package library

import (
	"context"
	"time"
)

// ComputeStatistics summarizes lib. BooksRead counts read entries finished
// in now's calendar year, falling back to addedDate for entries placed on
// read directly.
func ComputeStatistics(lib Library, now time.Time) Stats {
	year := now.Year()
	booksRead := 0
	for _, e := range lib.Read {
		when := e.AddedDate
		if e.FinishedDate != nil {
			when = *e.FinishedDate
		}
		if when.In(now.Location()).Year() == year {
			booksRead++
		}
	}

	return Stats{
		TotalBooks:       lib.Count(),
		BooksRead:        booksRead,
		CurrentlyReading: len(lib.Reading),
		WantToRead:       len(lib.WantToRead),
	}
}

func (s *Store) Statistics(ctx context.Context) (Stats, error) {
	lib, err := s.Library(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStatistics(lib, s.now()), nil
}
