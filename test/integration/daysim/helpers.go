package daysim

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/slok/daysim/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary       string
	GeminiAPIKey string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "daysim"
	}

	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("binary %q not found: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "DAYSIM_INTEGRATION"
		envBinary     = "DAYSIM_INTEGRATION_BINARY"
		envAPIKey     = "DAYSIM_INTEGRATION_GEMINI_API_KEY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary:       os.Getenv(envBinary),
		GeminiAPIKey: os.Getenv(envAPIKey),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunDaysimCmd runs a daysim command against a specific data dir, without logs.
func RunDaysimCmd(ctx context.Context, config Config, dataDir, cmdArgs string) (stdout, stderr []byte, err error) {
	env := []string{
		"DAYSIM_DATA_DIR=" + dataDir,
		"GEMINI_API_KEY=" + config.GeminiAPIKey,
	}

	return testutils.RunDaysim(ctx, env, config.Binary, cmdArgs, true)
}

// RunDay simulates a single day in JSON format.
func RunDay(ctx context.Context, config Config, dataDir, args string) (stdout, stderr []byte, err error) {
	return RunDaysimCmd(ctx, config, dataDir, "run --format json "+args)
}

// RunEvaluate runs an evaluation in JSON format.
func RunEvaluate(ctx context.Context, config Config, dataDir, args string) (stdout, stderr []byte, err error) {
	return RunDaysimCmd(ctx, config, dataDir, "evaluate --format json "+args)
}

// RunResults lists stored results in JSON format.
func RunResults(ctx context.Context, config Config, dataDir string) (stdout, stderr []byte, err error) {
	return RunDaysimCmd(ctx, config, dataDir, "results --format json")
}

// RunLessons lists stored lessons in JSON format.
func RunLessons(ctx context.Context, config Config, dataDir string) (stdout, stderr []byte, err error) {
	return RunDaysimCmd(ctx, config, dataDir, "lessons --format json")
}
