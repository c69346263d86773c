package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultTimeout = 15 * time.Second
	redacted       = "REDACTED"
)

// Client wraps the two Data API calls the explorer relies on.
// The API key is passed per call and never stored on the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search calls search.list restricted to videos and returns hits in API relevance order.
func (c *Client) Search(ctx context.Context, apiKey, query string, maxResults int) ([]SearchItem, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))

	var decoded searchResponse
	if err := c.get(ctx, apiKey, "search", params, &decoded); err != nil {
		return nil, err
	}
	return decoded.Items, nil
}

// Videos calls videos.list once for the whole id set.
func (c *Client) Videos(ctx context.Context, apiKey string, ids []string) ([]VideoItem, error) {
	params := url.Values{}
	params.Set("part", "statistics,snippet")
	params.Set("id", strings.Join(ids, ","))

	var decoded videosResponse
	if err := c.get(ctx, apiKey, "videos", params, &decoded); err != nil {
		return nil, err
	}
	return decoded.Items, nil
}

func (c *Client) get(ctx context.Context, apiKey, resource string, params url.Values, out any) error {
	params.Set("key", apiKey)
	endpoint := c.baseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return redactKey(err, apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redactKey(err, apiKey)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return decodeAPIError(resp, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s response: %w", resource, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var decoded errorResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		apiErr.Message = decoded.Error.Message
		if len(decoded.Error.Errors) > 0 {
			apiErr.Reason = decoded.Error.Errors[0].Reason
		}
	}
	return apiErr
}

// redactKey strips the API key from transport errors, whose text embeds the request URL.
func redactKey(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{
			Op:  ue.Op,
			URL: scrub(ue.URL, apiKey),
			Err: ue.Err,
		}
	}
	if strings.Contains(err.Error(), apiKey) {
		return errors.New(scrub(err.Error(), apiKey))
	}
	return err
}

func scrub(s, apiKey string) string {
	s = strings.ReplaceAll(s, url.QueryEscape(apiKey), redacted)
	return strings.ReplaceAll(s, apiKey, redacted)
}
