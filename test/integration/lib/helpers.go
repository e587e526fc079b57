package lib

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	sdklib "github.com/slok/daysim/pkg/lib"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
}

// NewConfig loads integration test configuration from environment variables.
// If the activation env var or the API key are not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "DAYSIM_INTEGRATION"
		envAPIKey     = "DAYSIM_INTEGRATION_GEMINI_API_KEY"
		envModel      = "DAYSIM_INTEGRATION_GEMINI_MODEL"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		GeminiAPIKey: os.Getenv(envAPIKey),
		GeminiModel:  os.Getenv(envModel),
	}
	if c.GeminiAPIKey == "" {
		t.Skipf("Skipping integration test: %s is not set", envAPIKey)
	}

	return c
}

// NewClient creates an SDK client with an isolated data dir.
func NewClient(t *testing.T, config Config) *sdklib.Client {
	t.Helper()

	client, err := sdklib.New(context.Background(), sdklib.Config{
		DataDir:      t.TempDir(),
		GeminiAPIKey: config.GeminiAPIKey,
		GeminiModel:  config.GeminiModel,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}
