package tempo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is a thin Tempo Timesheets REST client with bearer-token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a Tempo client.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// Worklog is a Tempo worklog as returned by the API.
type Worklog struct {
	TempoWorklogID   int64  `json:"tempoWorklogId"`
	IssueID          int64  `json:"-"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	Description      string `json:"description"`
}

// worklogJSON matches the wire shape, where the issue is nested.
type worklogJSON struct {
	TempoWorklogID   int64  `json:"tempoWorklogId"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	Description      string `json:"description"`
	Issue            struct {
		ID int64 `json:"id"`
	} `json:"issue"`
}

func (w worklogJSON) toWorklog() Worklog {
	return Worklog{
		TempoWorklogID:   w.TempoWorklogID,
		IssueID:          w.Issue.ID,
		TimeSpentSeconds: w.TimeSpentSeconds,
		StartDate:        w.StartDate,
		StartTime:        w.StartTime,
		Description:      w.Description,
	}
}

// CreateWorklogRequest is the body for POST /worklogs.
type CreateWorklogRequest struct {
	IssueID          int64  `json:"issueId"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	Description      string `json:"description,omitempty"`
}

// worklogPage is the paged response for GET /worklogs.
type worklogPage struct {
	Results  []worklogJSON `json:"results"`
	Metadata struct {
		Next string `json:"next"`
	} `json:"metadata"`
}

// do sends a request with auth headers and returns the response body,
// surfacing non-2xx statuses as errors carrying the status text.
func (c *Client) do(ctx context.Context, method, endpoint string, reqBody any) ([]byte, error) {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tempo request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tempo API error: %s", resp.Status)
	}
	return data, nil
}

// CreateWorklog submits a new worklog and returns its Tempo ID.
func (c *Client) CreateWorklog(ctx context.Context, req CreateWorklogRequest) (int64, error) {
	c.log.Debug("tempo create worklog",
		zap.Int64("issue_id", req.IssueID),
		zap.Int64("seconds", req.TimeSpentSeconds))

	data, err := c.do(ctx, http.MethodPost, c.baseURL+"/worklogs", req)
	if err != nil {
		return 0, err
	}
	var created worklogJSON
	if err := json.Unmarshal(data, &created); err != nil {
		return 0, fmt.Errorf("decoding tempo response: %w", err)
	}
	return created.TempoWorklogID, nil
}

// ListWorklogs fetches all worklogs in [from, to], following pagination.
func (c *Client) ListWorklogs(ctx context.Context, from, to time.Time) ([]Worklog, error) {
	endpoint := fmt.Sprintf("%s/worklogs?from=%s&to=%s&limit=200",
		c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var all []Worklog
	for endpoint != "" {
		data, err := c.do(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		var page worklogPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decoding tempo response: %w", err)
		}
		for _, w := range page.Results {
			all = append(all, w.toWorklog())
		}
		endpoint = page.Metadata.Next
	}
	return all, nil
}
