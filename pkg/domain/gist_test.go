package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	created := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)

	g := Gist{
		ID:          "abc123",
		HTMLURL:     "https://gist.github.com/abc123",
		Description: "snippets",
		Public:      true,
		CreatedAt:   created,
		UpdatedAt:   updated,
		Comments:    2,
		Files: map[string]GistFile{
			"b.go":  {Filename: "b.go"},
			"a.txt": {Filename: "a.txt"},
		},
	}

	s := g.Summarize()

	assert.Equal(t, "abc123", s.ID)
	assert.Equal(t, "snippets", s.Description)
	assert.Equal(t, "https://gist.github.com/abc123", s.URL)
	assert.Equal(t, []string{"a.txt", "b.go"}, s.Files)
	assert.Equal(t, 2, s.FileCount)
	assert.True(t, s.Public)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, updated, s.UpdatedAt)
	assert.Equal(t, 2, s.Comments)
}

func TestSummarizeEmptyDescription(t *testing.T) {
	g := Gist{ID: "x"}

	s := g.Summarize()

	assert.Equal(t, "No description", s.Description)
	assert.Empty(t, s.Files)
	assert.Zero(t, s.FileCount)
}
