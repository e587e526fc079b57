package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/daysim/internal/model"
)

func TestEnvironment(t *testing.T) {
	p := model.DefaultUserProfile()
	env := model.NewEnvironment(p)

	assert.Equal(t, 540, env.CurrentTime)
	assert.Equal(t, 100.0, env.CurrentEnergy)
	assert.Equal(t, 480, env.RemainingMins())
	assert.False(t, env.DayOver())

	env.Perturb(120, 30)
	assert.Equal(t, 660, env.CurrentTime)
	assert.Equal(t, 70.0, env.CurrentEnergy)

	// Time never goes backwards.
	env.Perturb(-60, 80)
	assert.Equal(t, 660, env.CurrentTime)
	assert.Equal(t, -10.0, env.CurrentEnergy)
	assert.Equal(t, 0.0, env.DisplayEnergy())

	env.Perturb(360, 0)
	assert.True(t, env.DayOver())

	env.Reset()
	assert.Equal(t, 540, env.CurrentTime)
	assert.Equal(t, 100.0, env.CurrentEnergy)
}

func TestFormatClock(t *testing.T) {
	tests := map[string]struct {
		mins int
		exp  string
	}{
		"Midnight":      {mins: 0, exp: "00:00"},
		"Start of day":  {mins: 540, exp: "09:00"},
		"With minutes":  {mins: 605, exp: "10:05"},
		"End of day":    {mins: 1020, exp: "17:00"},
		"Past midnight": {mins: 1470, exp: "24:30"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, model.FormatClock(test.mins))
		})
	}
}
