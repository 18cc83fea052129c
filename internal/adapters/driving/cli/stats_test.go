package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsCmd_Use(t *testing.T) {
	assert.Equal(t, "stats", statsCmd.Use)
}

func TestStatsCmd_Short(t *testing.T) {
	assert.Equal(t, "Show index and corpus statistics", statsCmd.Short)
}

func TestStatsCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Vectors:   2")
	assert.Contains(t, buf.String(), "Dimension: 4")
	assert.Contains(t, buf.String(), "Chunks:    2")
}

func TestOrUnset(t *testing.T) {
	assert.Equal(t, "(none)", orUnset(""))
	assert.Equal(t, "llama3.2", orUnset("llama3.2"))
}
