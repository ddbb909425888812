package learning

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ProgressStore persists the daily goal progress fields.
type ProgressStore interface {
	DailyGoal() int
	Progress() int
	SetProgress(n int) error
	LastDate() string
	SetLastDate(date string) error
	AnimationShownDate() string
	SetAnimationShownDate(date string) error
}

// GoalManager tracks how many words were learned today against the daily goal.
// The counter resets on the first change of a new calendar day.
type GoalManager struct {
	store ProgressStore
	now   func() time.Time
}

// NewGoalManager creates a GoalManager. A nil now uses time.Now.
func NewGoalManager(store ProgressStore, now func() time.Time) *GoalManager {
	if now == nil {
		now = time.Now
	}
	return &GoalManager{store: store, now: now}
}

func (g *GoalManager) today() string {
	return g.now().Format(dateLayout)
}

// ResetIfNewDay zeroes today's progress when the stored date is not today.
func (g *GoalManager) ResetIfNewDay() error {
	today := g.today()
	if g.store.LastDate() == today {
		return nil
	}
	if err := g.store.SetProgress(0); err != nil {
		return fmt.Errorf("store.SetProgress() > %w", err)
	}
	if err := g.store.SetLastDate(today); err != nil {
		return fmt.Errorf("store.SetLastDate() > %w", err)
	}
	return nil
}

// IncrementProgress counts one more word learned today.
func (g *GoalManager) IncrementProgress() error {
	if err := g.ResetIfNewDay(); err != nil {
		return err
	}
	if err := g.store.SetProgress(g.store.Progress() + 1); err != nil {
		return fmt.Errorf("store.SetProgress() > %w", err)
	}
	return nil
}

// LearnedToday returns today's counter.
func (g *GoalManager) LearnedToday() int {
	if g.store.LastDate() != g.today() {
		return 0
	}
	return g.store.Progress()
}

// DailyGoal returns the configured goal.
func (g *GoalManager) DailyGoal() int {
	return g.store.DailyGoal()
}

// ProgressFraction returns today's progress in [0, 1].
func (g *GoalManager) ProgressFraction() float64 {
	goal := g.store.DailyGoal()
	if goal <= 0 {
		return 1
	}
	fraction := float64(g.LearnedToday()) / float64(goal)
	if fraction > 1 {
		return 1
	}
	return fraction
}

// IsGoalReached reports whether today's goal is met.
func (g *GoalManager) IsGoalReached() bool {
	return g.LearnedToday() >= g.store.DailyGoal()
}

// ShouldShowGoalAnimation reports whether the goal is met and not yet celebrated today.
func (g *GoalManager) ShouldShowGoalAnimation() bool {
	return g.IsGoalReached() && g.store.AnimationShownDate() != g.today()
}

// MarkGoalAnimationShown records that today's goal was celebrated.
func (g *GoalManager) MarkGoalAnimationShown() error {
	if err := g.store.SetAnimationShownDate(g.today()); err != nil {
		return fmt.Errorf("store.SetAnimationShownDate() > %w", err)
	}
	return nil
}
