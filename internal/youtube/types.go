package youtube

import "fmt"

// Snippet is the descriptive metadata block shared by search and video resources.
type Snippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// ResourceID identifies a search hit.
type ResourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// SearchItem is one entry of a search.list response.
type SearchItem struct {
	ID      ResourceID `json:"id"`
	Snippet Snippet    `json:"snippet"`
}

// VideoItem is one entry of a videos.list response. Statistics are kept
// undecoded (strings or json.Number) so callers decide how to coerce them.
type VideoItem struct {
	ID         string         `json:"id"`
	Snippet    Snippet        `json:"snippet"`
	Statistics map[string]any `json:"statistics"`
}

type searchResponse struct {
	Items []SearchItem `json:"items"`
}

type videosResponse struct {
	Items []VideoItem `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// APIError is a non-200 answer from the Data API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api: %d %s: %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api: %d: %s", e.StatusCode, e.Message)
}
