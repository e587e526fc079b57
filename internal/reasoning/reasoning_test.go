package reasoning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/daysim/internal/reasoning"
)

func TestIsApproved(t *testing.T) {
	tests := map[string]struct {
		verdict string
		exp     bool
	}{
		"Approved":                  {verdict: "APPROVED", exp: true},
		"Approved with spaces":      {verdict: "  APPROVED\n", exp: true},
		"Flaw":                      {verdict: "FLAW: Hard tasks are placed too late.", exp: false},
		"Lowercase is not approved": {verdict: "approved", exp: false},
		"Empty is not approved":     {verdict: "", exp: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, reasoning.IsApproved(test.verdict))
		})
	}
}
