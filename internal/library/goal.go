package library

import (
	"context"

	"bookshelf/internal/events"
)

// ReadingGoal returns the stored goal, or a goal of 12 books for the
// current year when none was saved.
func (s *Store) ReadingGoal(ctx context.Context) (ReadingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadGoal(ctx)
}

// SaveReadingGoal stores target for the current year, replacing any goal
// saved before regardless of its year.
func (s *Store) SaveReadingGoal(ctx context.Context, target int) (ReadingGoal, error) {
	if target < 1 {
		return ReadingGoal{}, ErrInvalidGoal
	}

	goal := ReadingGoal{Target: target, Year: s.now().Year()}
	err := s.mutate(ctx, func() (*events.Event, error) {
		if err := s.save(ctx, goalKey, goal); err != nil {
			return nil, err
		}
		return &events.Event{Type: events.GoalSaved, Target: &target}, nil
	})
	if err != nil {
		return ReadingGoal{}, err
	}
	return goal, nil
}

// GoalProgress relates the books finished this year to the reading goal.
func (s *Store) GoalProgress(ctx context.Context) (GoalProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.loadGoal(ctx)
	if err != nil {
		return GoalProgress{}, err
	}
	lib, err := s.loadLibrary(ctx)
	if err != nil {
		return GoalProgress{}, err
	}
	return computeGoalProgress(goal, ComputeStatistics(lib, s.now()).BooksRead), nil
}

func (s *Store) loadGoal(ctx context.Context) (ReadingGoal, error) {
	var goal ReadingGoal
	found, err := s.load(ctx, goalKey, &goal)
	if err != nil {
		return ReadingGoal{}, err
	}
	if !found {
		return ReadingGoal{Target: DefaultGoalTarget, Year: s.now().Year()}, nil
	}
	return goal, nil
}

func computeGoalProgress(goal ReadingGoal, booksRead int) GoalProgress {
	gp := GoalProgress{Goal: goal, BooksRead: booksRead}
	if goal.Target > 0 {
		gp.Percent = booksRead * 100 / goal.Target
		if gp.Percent > 100 {
			gp.Percent = 100
		}
	}
	if remaining := goal.Target - booksRead; remaining > 0 {
		gp.Remaining = remaining
	}
	gp.Achieved = goal.Target > 0 && booksRead >= goal.Target
	return gp
}
