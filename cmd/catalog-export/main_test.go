package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsConfigError(t *testing.T) {
	t.Setenv("CATALOG_CONFIG", "")
	t.Setenv("CATALOG_API_URL", "not a url")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
