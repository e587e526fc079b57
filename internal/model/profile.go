package model

import "fmt"

// UserProfile defines the capacity of the simulated operator. It doesn't change during a day.
type UserProfile struct {
	DailyEnergyCap      float64
	FocusDecayRate      float64
	ProcrastinationProb float64
	// WorkSpeedMultiplier scales execution time, <1 is faster, >1 is slower.
	WorkSpeedMultiplier float64
	StartHour           int
	EndHour             int
}

// DefaultUserProfile returns the default operator profile.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		DailyEnergyCap:      100,
		FocusDecayRate:      0.1,
		ProcrastinationProb: 0.2,
		WorkSpeedMultiplier: 1.0,
		StartHour:           9,
		EndHour:             17,
	}
}

// DayStartMins returns the start of the feasible window in minutes since midnight.
func (p UserProfile) DayStartMins() int { return p.StartHour * 60 }

// DayEndMins returns the (exclusive) end of the feasible window in minutes since midnight.
func (p UserProfile) DayEndMins() int { return p.EndHour * 60 }

// Validate validates the profile.
func (p UserProfile) Validate() error {
	if p.StartHour < 0 || p.EndHour > 24 {
		return fmt.Errorf("work hours must be inside 0-24: %w", ErrNotValid)
	}

	if p.StartHour >= p.EndHour {
		return fmt.Errorf("start hour (%d) must be before end hour (%d): %w", p.StartHour, p.EndHour, ErrNotValid)
	}

	if p.DailyEnergyCap <= 0 {
		return fmt.Errorf("daily energy cap must be positive: %w", ErrNotValid)
	}

	if p.WorkSpeedMultiplier <= 0 {
		return fmt.Errorf("work speed multiplier must be positive: %w", ErrNotValid)
	}

	if p.ProcrastinationProb < 0 || p.ProcrastinationProb > 1 {
		return fmt.Errorf("procrastination probability must be inside 0-1: %w", ErrNotValid)
	}

	return nil
}
