package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/youtube"
)

// Result bound accepted by the search form.
const (
	MinResults     = 5
	MaxResults     = 50
	DefaultResults = 10
)

var (
	ErrMissingInput = errors.New("api key and search query are required")
	ErrInvalidBound = fmt.Errorf("max results must be between %d and %d", MinResults, MaxResults)
	ErrNoResults    = errors.New("no videos matched the query")
)

// Query is the immutable input of one explorer run.
type Query struct {
	APIKey     string
	Text       string
	MaxResults int
	// Charts requests SVG rendering in addition to the report data.
	Charts bool
}

// Validate checks that all three inputs are present and the bound is in range.
func (q Query) Validate() error {
	if strings.TrimSpace(q.APIKey) == "" || strings.TrimSpace(q.Text) == "" {
		return ErrMissingInput
	}
	if q.MaxResults < MinResults || q.MaxResults > MaxResults {
		return ErrInvalidBound
	}
	return nil
}

// VideoSource is the slice of the Data API the fetch stage needs.
type VideoSource interface {
	Search(ctx context.Context, apiKey, query string, maxResults int) ([]youtube.SearchItem, error)
	Videos(ctx context.Context, apiKey string, ids []string) ([]youtube.VideoItem, error)
}

type FetchService struct {
	src VideoSource
}

func NewFetchService(src VideoSource) *FetchService {
	return &FetchService{src: src}
}

// Fetch runs search.list then a single batched videos.list for exactly
// the identifiers the search returned.
func (s *FetchService) Fetch(ctx context.Context, q Query) ([]youtube.VideoItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	hits, err := s.src.Search(ctx, q.APIKey, q.Text, q.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := VideoIDs(hits, q.MaxResults)
	if len(ids) == 0 {
		return nil, ErrNoResults
	}

	items, err := s.src.Videos(ctx, q.APIKey, ids)
	if err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}
	return items, nil
}

// VideoIDs collects video identifiers from search hits in relevance order,
// skipping non-video hits and duplicates, capped at limit.
func VideoIDs(hits []youtube.SearchItem, limit int) []string {
	seen := make(map[string]struct{}, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		id := strings.TrimSpace(h.ID.VideoID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) == limit {
			break
		}
	}
	return ids
}
