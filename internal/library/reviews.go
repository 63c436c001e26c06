package library

import (
	"context"
	"math"

	"bookshelf/internal/events"
)

// SaveReview upserts the review for bookID and stamps its date. Reviews do
// not depend on shelf membership.
func (s *Store) SaveReview(ctx context.Context, bookID string, in ReviewInput) (Review, error) {
	if bookID == "" {
		return Review{}, ErrInvalidRecord
	}
	if !validRating(in.Rating) {
		return Review{}, ErrInvalidRating
	}

	var review Review
	err := s.mutate(ctx, func() (*events.Event, error) {
		reviews, err := s.loadReviews(ctx)
		if err != nil {
			return nil, err
		}

		review = Review{Rating: in.Rating, Text: in.Text, Date: s.now().UTC()}
		reviews[bookID] = review

		if err := s.save(ctx, reviewsKey, reviews); err != nil {
			return nil, err
		}
		rating := review.Rating
		return &events.Event{Type: events.ReviewSaved, BookID: bookID, Rating: &rating}, nil
	})
	if err != nil {
		return Review{}, err
	}
	return review, nil
}

func (s *Store) Review(ctx context.Context, bookID string) (Review, bool, error) {
	reviews, err := s.Reviews(ctx)
	if err != nil {
		return Review{}, false, err
	}
	r, ok := reviews[bookID]
	return r, ok, nil
}

// Reviews returns every stored review keyed by book id.
func (s *Store) Reviews(ctx context.Context) (map[string]Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadReviews(ctx)
}

func (s *Store) loadReviews(ctx context.Context) (map[string]Review, error) {
	reviews := map[string]Review{}
	if _, err := s.load(ctx, reviewsKey, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = map[string]Review{}
	}
	return reviews, nil
}

func validRating(r float64) bool {
	if math.IsNaN(r) || r < 0 || r > 5 {
		return false
	}
	return math.Mod(r*2, 1) == 0
}
