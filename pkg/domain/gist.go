package domain

import (
	"sort"
	"time"
)

// Gist represents a gist as returned by the GitHub API.
// Only the fields the service consumes are mapped.
type Gist struct {
	ID          string              `json:"id"`
	HTMLURL     string              `json:"html_url"`
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Comments    int                 `json:"comments"`
	Files       map[string]GistFile `json:"files"`
}

// GistFile represents a single file within a gist.
type GistFile struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Language string `json:"language"`
	RawURL   string `json:"raw_url"`
	Size     int    `json:"size"`
}

// GistSummary is the reshaped gist record served to clients.
type GistSummary struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Files       []string  `json:"files"`
	FileCount   int       `json:"file_count"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Comments    int       `json:"comments"`
}

// Summarize converts an upstream gist into the client-facing summary.
// Gists without a description get a placeholder so the field is never empty.
func (g *Gist) Summarize() GistSummary {
	files := make([]string, 0, len(g.Files))
	for name := range g.Files {
		files = append(files, name)
	}
	sort.Strings(files)

	description := g.Description
	if description == "" {
		description = "No description"
	}

	return GistSummary{
		ID:          g.ID,
		Description: description,
		URL:         g.HTMLURL,
		Files:       files,
		FileCount:   len(files),
		Public:      g.Public,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Comments:    g.Comments,
	}
}

// Pagination describes the position of a page within the upstream listing.
// HasNext is inferred from a full page since the upstream does not report
// a total count.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	HasNext     bool `json:"has_next"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
}

// RateLimit carries the upstream rate limit headers observed on a fetch.
type RateLimit struct {
	Remaining *int       `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at"`
}

// CacheInfo reports whether a response was served from cache.
type CacheInfo struct {
	Hit        bool `json:"hit"`
	TTLSeconds int  `json:"ttl_seconds"`
}

// GistsPage is the response envelope for a gist listing request.
type GistsPage struct {
	Username   string        `json:"username"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	GistCount  int           `json:"gist_count"`
	Gists      []GistSummary `json:"gists"`
	Pagination Pagination    `json:"pagination"`
	RateLimit  RateLimit     `json:"rate_limit"`
	Cache      CacheInfo     `json:"cache"`
}

// CacheStats reports the state of the response cache.
type CacheStats struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
	TTLSeconds     int `json:"ttl_seconds"`
}
