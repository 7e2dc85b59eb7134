package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when Jira answers 404 for an issue key.
// The crawler relies on it to tell "absent" apart from real failures.
var ErrNotFound = errors.New("jira: issue not found")

// Issue is the subset of a Jira issue the tracker cares about.
type Issue struct {
	ID         int64
	Key        string
	ProjectKey string
	Summary    string
	Status     string
	IssueType  string
}

// Client is a thin Jira Cloud REST client authenticated with email + API token.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a Jira client for the given site.
func NewClient(baseURL, email, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		email:   email,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// issueResponse mirrors the fields requested from GET /rest/api/3/issue.
type issueResponse struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Project struct {
			Key string `json:"key"`
		} `json:"project"`
	} `json:"fields"`
}

// GetIssue fetches a single issue by key. A 404 maps to ErrNotFound; any
// other non-2xx status is surfaced as an error carrying the status text.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=summary,status,issuetype,project",
		c.baseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("jira request", zap.String("key", key))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jira API error for %s: %s", key, resp.Status)
	}

	var ir issueResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("decoding jira response: %w", err)
	}

	id, err := strconv.ParseInt(ir.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("jira returned non-numeric issue id %q: %w", ir.ID, err)
	}

	return &Issue{
		ID:         id,
		Key:        ir.Key,
		ProjectKey: ir.Fields.Project.Key,
		Summary:    ir.Fields.Summary,
		Status:     ir.Fields.Status.Name,
		IssueType:  ir.Fields.IssueType.Name,
	}, nil
}
