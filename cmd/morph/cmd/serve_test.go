package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand(t *testing.T) {
	assert.NotNil(t, serveCmd)
	assert.Equal(t, "serve", serveCmd.Use)
	assert.NotEmpty(t, serveCmd.Short)
	assert.Contains(t, serveCmd.Long, "/morph")
	assert.Contains(t, serveCmd.Long, "/health")
}

func TestServeCommandFlags(t *testing.T) {
	flags := serveCmd.Flags()
	for _, name := range []string{
		"host", "port", "cors-origin", "max-upload-size", "timeout",
		"shutdown-timeout", "rate-limit-enabled", "requests-per-minute", "max-data-per-day",
	} {
		assert.NotNil(t, flags.Lookup(name), "Expected flag '%s' not found", name)
	}
}

func TestServeCommandInvalidPort(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"serve", "--port", "99999"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "port"))
}
