package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "north-east", SanitizeKey("  north east\n"))
	assert.Equal(t, "a-b", SanitizeKey("a/b"))
	assert.Equal(t, "x1", SanitizeKey("[x](1)"))
	assert.Equal(t, "", SanitizeKey("   "))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 5, ParseLimit("", 5, 50))
	assert.Equal(t, 5, ParseLimit("abc", 5, 50))
	assert.Equal(t, 5, ParseLimit("-3", 5, 50))
	assert.Equal(t, 7, ParseLimit("7", 5, 50))
	assert.Equal(t, 50, ParseLimit("500", 5, 50))
	assert.Equal(t, 500, ParseLimit("500", 5, 0))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "x", GetStringOrDefault("  ", "x"))
	assert.Equal(t, "y", GetStringOrDefault("y", "x"))
	assert.True(t, IsEmpty(" \t"))
}
