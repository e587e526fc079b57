package model

// Environment is the mutable state of one simulated day. It's owned by a single day
// and must not be shared.
type Environment struct {
	Profile UserProfile
	// CurrentTime is the minutes since midnight.
	CurrentTime int
	// CurrentEnergy can go negative, use DisplayEnergy to show it.
	CurrentEnergy float64
}

// NewEnvironment returns a fresh environment at the start of the profile's day.
func NewEnvironment(p UserProfile) *Environment {
	e := &Environment{Profile: p}
	e.Reset()
	return e
}

// Reset sets the environment to the start of the day.
func (e *Environment) Reset() {
	e.CurrentTime = e.Profile.DayStartMins()
	e.CurrentEnergy = e.Profile.DailyEnergyCap
}

// DayOver returns true when no more time is left in the day.
func (e *Environment) DayOver() bool { return e.CurrentTime >= e.Profile.DayEndMins() }

// RemainingMins returns the minutes left until the end of the day.
func (e *Environment) RemainingMins() int { return e.Profile.DayEndMins() - e.CurrentTime }

// DisplayEnergy returns the energy clamped at 0.
func (e *Environment) DisplayEnergy() float64 { return max(0, e.CurrentEnergy) }

// Perturb applies an exogenous event between task executions. Negative elapsed
// minutes are ignored so time never goes backwards.
func (e *Environment) Perturb(elapsedMins int, energyLoss float64) {
	if elapsedMins > 0 {
		e.CurrentTime += elapsedMins
	}
	e.CurrentEnergy -= energyLoss
}
