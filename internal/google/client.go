package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const calendarBaseURL = "https://www.googleapis.com/calendar/v3"

// Client is an authenticated Google Calendar API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Calendar client using the provided token and config.
// Tokens refreshed by the underlying TokenSource are persisted.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return &Client{
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{ts: ts}),
		baseURL:    calendarBaseURL,
	}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = saveToken(tok)
	return tok, nil
}

// Event represents a Google Calendar event.
type Event struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`       // "confirmed", "tentative", "cancelled"
	Transparency string    `json:"transparency"` // "" (busy) or "transparent"
	Visibility   string    `json:"visibility"`   // "", "default", "public", "private", "confidential"
	Summary      string    `json:"summary"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
}

// EventTime is either a dateTime (timed event) or a date (all-day event).
type EventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

// eventsResponse is the Calendar API paged response.
type eventsResponse struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

// ListEvents fetches events of the primary calendar in [from, to), expanding
// recurring events and following pagination.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	var all []Event
	pageToken := ""
	for {
		q := url.Values{
			"timeMin":      {from.UTC().Format(time.RFC3339)},
			"timeMax":      {to.UTC().Format(time.RFC3339)},
			"singleEvents": {"true"},
			"orderBy":      {"startTime"},
			"maxResults":   {"250"},
		}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		endpoint := fmt.Sprintf("%s/calendars/primary/events?%s", c.baseURL, q.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calendar API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("calendar API error %d: %s", resp.StatusCode, string(body))
		}

		var page eventsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding calendar response: %w", err)
		}
		all = append(all, page.Items...)
		if page.NextPageToken == "" {
			return all, nil
		}
		pageToken = page.NextPageToken
	}
}
