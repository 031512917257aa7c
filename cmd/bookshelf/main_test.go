package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Driver:   "sqlite3",
		DSN:      filepath.Join(t.TempDir(), "library.db"),
		Authors:  30,
		Books:    60,
		Seed:     1,
		LogLevel: "disabled",
		Progress: true,
	}
}

func TestBookshelf(t *testing.T) {
	cfg := testConfig(t)
	var stdout, stderr bytes.Buffer

	require.NoError(t, bookshelf(context.Background(), cfg, &stdout, &stderr))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "Database populated successfully.\n"))
	sections := []string{
		"\nBooks with max pages:\n",
		"\nThe average number of pages is ",
		"\nThe youngest author(s):\n",
		"\nAuthors without books:\n",
		"\nAuthors with more than 3 books:\n",
	}
	last := 0
	for _, section := range sections {
		ix := strings.Index(out, section)
		require.GreaterOrEqual(t, ix, last, "section %q out of order", section)
		last = ix
	}
}

func TestBookshelfWithoutAuthorsFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Authors = 0
	var stdout, stderr bytes.Buffer

	err := bookshelf(context.Background(), cfg, &stdout, &stderr)
	assert.ErrorContains(t, err, "seeding")
	assert.NotContains(t, stdout.String(), "Database populated successfully.")
}
