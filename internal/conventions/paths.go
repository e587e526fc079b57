package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default daysim data directory name (relative to home).
	DefaultDataDir = ".daysim"

	// DBFile is the SQLite database holding lessons and day results.
	DBFile = "daysim.db"
	// LessonsJSONFile is the JSON array file used by the JSON lessons backend.
	LessonsJSONFile = "agent_memory.json"

	// MaxLessons is how many day-end lessons are remembered.
	MaxLessons = 5

	// DefaultTasksPerDay is the number of generated tasks of a simulated day.
	DefaultTasksPerDay = 6
	// DefaultEvaluationDays is the number of days each agent runs on an evaluation.
	DefaultEvaluationDays = 5
)

// DBPath returns the path of the SQLite database inside the data dir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// LessonsJSONPath returns the path of the JSON lessons file inside the data dir.
func LessonsJSONPath(dataDir string) string {
	return filepath.Join(dataDir, LessonsJSONFile)
}
