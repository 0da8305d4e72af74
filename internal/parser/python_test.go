package parser

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parser:
// - Parse a valid file into source, lines, and a tree
// - Lines are a 0-indexed split of the raw text
// - Invalid syntax yields a *ParseError naming the error position
// - Empty input parses fine
// - Close is safe to call twice

func TestParser_ValidFile(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("../../testdata/code/python/simple.py")
	require.NoError(t, err)

	file, err := NewParser().Parse("simple.py", data)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "simple.py", file.Path)
	assert.Equal(t, data, file.Source)
	assert.Equal(t, "module", file.Root().Kind())

	// Test: lines view matches the raw text
	assert.Equal(t, `"""Simple user management example."""`, file.Lines[0])
	assert.Equal(t, "import os", file.Lines[2])
}

func TestParser_InvalidSyntax(t *testing.T) {
	t.Parallel()

	file, err := NewParser().Parse("broken.py", []byte("def f(:\n"))

	require.Error(t, err)
	assert.Nil(t, file)

	// Test: the failure is a *ParseError with position detail
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "broken.py", parseErr.Path)
	assert.Contains(t, parseErr.Error(), "invalid syntax")
}

func TestParser_EmptyFile(t *testing.T) {
	t.Parallel()

	file, err := NewParser().Parse("empty.py", []byte(""))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "module", file.Root().Kind())
	assert.Equal(t, []string{""}, file.Lines)
}

func TestFile_CloseTwice(t *testing.T) {
	t.Parallel()

	file, err := NewParser().Parse("x.py", []byte("x = 1\n"))
	require.NoError(t, err)

	file.Close()
	file.Close()
}
