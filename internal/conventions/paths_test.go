package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/daysim/internal/conventions"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/data/daysim.db", conventions.DBPath("/data"))
	assert.Equal(t, "/data/agent_memory.json", conventions.LessonsJSONPath("/data"))
}
