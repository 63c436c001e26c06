package library

import (
	"context"
	"math"

	"bookshelf/internal/entity"
	"bookshelf/internal/events"
)

// Library returns the three shelves. An empty store yields three empty shelves.
func (s *Store) Library(ctx context.Context) (Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLibrary(ctx)
}

// AddToShelf removes the record from every shelf and appends a fresh entry to
// shelf. Entries placed on read start at 100% progress, others at 0.
func (s *Store) AddToShelf(ctx context.Context, rec entity.Record, shelf Shelf) (Library, error) {
	if !shelf.Valid() {
		return Library{}, ErrInvalidShelf
	}
	if rec.ID == "" {
		return Library{}, ErrInvalidRecord
	}

	var lib Library
	err := s.mutate(ctx, func() (*events.Event, error) {
		var err error
		lib, err = s.loadLibrary(ctx)
		if err != nil {
			return nil, err
		}

		lib.removeAll(rec.ID)
		entry := Entry{
			Record:    rec.Normalized(),
			AddedDate: s.now().UTC(),
		}
		if shelf == Read {
			entry.Progress = 100
		}
		entries := lib.shelf(shelf)
		*entries = append(*entries, entry)

		if err := s.save(ctx, libraryKey, lib); err != nil {
			return nil, err
		}
		return &events.Event{Type: events.BookShelved, BookID: rec.ID, Shelf: string(shelf)}, nil
	})
	if err != nil {
		return Library{}, err
	}
	return lib, nil
}

// Remove drops the book from every shelf. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, bookID string) (Library, error) {
	var lib Library
	err := s.mutate(ctx, func() (*events.Event, error) {
		var err error
		lib, err = s.loadLibrary(ctx)
		if err != nil {
			return nil, err
		}
		if !lib.removeAll(bookID) {
			return nil, nil
		}

		if err := s.save(ctx, libraryKey, lib); err != nil {
			return nil, err
		}
		return &events.Event{Type: events.BookRemoved, BookID: bookID}, nil
	})
	if err != nil {
		return Library{}, err
	}
	return lib, nil
}

// UpdateProgress sets the progress percent of a shelved book. Reaching 100
// on the reading shelf moves the book to the end of read and stamps
// finishedDate; on other shelves the value is stored as is.
func (s *Store) UpdateProgress(ctx context.Context, bookID string, progress int) (Library, error) {
	if progress < 0 || progress > 100 {
		return Library{}, ErrInvalidProgress
	}

	var lib Library
	err := s.mutate(ctx, func() (*events.Event, error) {
		current, err := s.loadLibrary(ctx)
		if err != nil {
			return nil, err
		}
		var e *events.Event
		lib, e, err = s.updateProgress(ctx, current, bookID, progress)
		return e, err
	})
	if err != nil {
		return Library{}, err
	}
	return lib, nil
}

// UpdatePageProgress converts a page number into a progress percent using
// the record's page count.
func (s *Store) UpdatePageProgress(ctx context.Context, bookID string, page int) (Library, error) {
	if page < 0 {
		return Library{}, ErrInvalidProgress
	}

	var lib Library
	err := s.mutate(ctx, func() (*events.Event, error) {
		current, err := s.loadLibrary(ctx)
		if err != nil {
			return nil, err
		}

		shelf, i, ok := current.find(bookID)
		if !ok {
			return nil, ErrNotFound
		}
		pageCount := (*current.shelf(shelf))[i].PageCount
		if pageCount <= 0 {
			return nil, ErrNoPageCount
		}

		var e *events.Event
		lib, e, err = s.updateProgress(ctx, current, bookID, pagePercent(page, pageCount))
		return e, err
	})
	if err != nil {
		return Library{}, err
	}
	return lib, nil
}

// updateProgress must be called with s.mu held.
func (s *Store) updateProgress(ctx context.Context, lib Library, bookID string, progress int) (Library, *events.Event, error) {
	shelf, i, ok := lib.find(bookID)
	if !ok {
		return Library{}, nil, ErrNotFound
	}

	entries := lib.shelf(shelf)
	entry := (*entries)[i]
	entry.Progress = progress
	(*entries)[i] = entry

	finished := shelf == Reading && progress == 100
	if finished {
		done := s.now().UTC()
		entry.FinishedDate = &done
		lib.Reading = append(lib.Reading[:i:i], lib.Reading[i+1:]...)
		lib.Read = append(lib.Read, entry)
	}

	if err := s.save(ctx, libraryKey, lib); err != nil {
		return Library{}, nil, err
	}

	if finished {
		return lib, &events.Event{Type: events.BookFinished, BookID: bookID, Shelf: string(Read), Progress: &progress}, nil
	}
	return lib, &events.Event{Type: events.BookProgress, BookID: bookID, Shelf: string(shelf), Progress: &progress}, nil
}

// Entry looks up a book and the shelf holding it.
func (s *Store) Entry(ctx context.Context, bookID string) (ShelvedEntry, bool, error) {
	lib, err := s.Library(ctx)
	if err != nil {
		return ShelvedEntry{}, false, err
	}
	shelf, i, ok := lib.find(bookID)
	if !ok {
		return ShelvedEntry{}, false, nil
	}
	return ShelvedEntry{Entry: (*lib.shelf(shelf))[i], Shelf: shelf}, true, nil
}

func pagePercent(page, pageCount int) int {
	p := int(math.Round(float64(page) / float64(pageCount) * 100))
	if p > 100 {
		return 100
	}
	return p
}
