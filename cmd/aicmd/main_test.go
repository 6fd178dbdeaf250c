package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVerbose(t *testing.T) {
	t.Setenv("AICMD_DEBUG", "")
	assert.False(t, isVerbose([]string{"list", "files"}))
	assert.True(t, isVerbose([]string{"--verbose", "list"}))
	assert.True(t, isVerbose([]string{"history", "-v"}))
	assert.False(t, isVerbose([]string{"generate", "--", "-v"}))

	t.Setenv("AICMD_DEBUG", "true")
	assert.True(t, isVerbose(nil))
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "", configPath([]string{"doctor"}))
	assert.Equal(t, "/tmp/a.yaml", configPath([]string{"--config", "/tmp/a.yaml", "doctor"}))
	assert.Equal(t, "/tmp/b.yaml", configPath([]string{"doctor", "--config=/tmp/b.yaml"}))
	assert.Equal(t, "", configPath([]string{"generate", "--", "--config", "x"}))
}
