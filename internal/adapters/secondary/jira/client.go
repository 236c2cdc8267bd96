package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// searchFields is the fixed field set requested from the search endpoint.
var searchFields = []string{"key", "issuetype", "assignee", "status", "resolutiondate"}

// Config holds the connection and query settings for the Jira Cloud client.
type Config struct {
	BaseURL    string
	UserEmail  string
	APIToken   string
	ProjectKey string
	SinceDate  string // YYYY-MM-DD; only tickets created on/after this date are counted
	MaxResults int
	Timeout    time.Duration
}

// Client fetches tickets from the Jira Cloud search API. One call retrieves
// one page; results beyond MaxResults are silently truncated, matching the
// tracker's paging model.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.TicketSource = (*Client)(nil)

// NewClient creates a new Jira search client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "jira_client"),
	}
}

// searchRequest is the JSON body for the Jira search endpoint.
type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

// searchResponse represents the Jira search API response.
type searchResponse struct {
	Issues []issue `json:"issues"`
}

type issue struct {
	Key    string `json:"key"`
	Fields fields `json:"fields"`
}

type fields struct {
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
}

// FetchTickets issues one search call for all project tickets created on or
// after the configured go-live date and normalizes each record. A non-2xx
// response is an error; there is no partial data and no retry.
func (c *Client) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	jql := fmt.Sprintf("project = %s AND created >= %q", c.cfg.ProjectKey, c.cfg.SinceDate)

	body, err := json.Marshal(searchRequest{
		JQL:        jql,
		Fields:     searchFields,
		MaxResults: c.cfg.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/rest/api/3/search/jql"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.SetBasicAuth(c.cfg.UserEmail, c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching tickets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jira search error (%d): %s", resp.StatusCode, string(excerpt))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(result.Issues))
	for _, i := range result.Issues {
		assignee := ""
		if i.Fields.Assignee != nil {
			assignee = i.Fields.Assignee.DisplayName
		}
		tickets = append(tickets, domain.NewTicket(
			i.Key,
			i.Fields.IssueType.Name,
			assignee,
			i.Fields.Status.Name,
		))
	}

	c.logger.Debug("tickets fetched",
		"project", c.cfg.ProjectKey,
		"since", c.cfg.SinceDate,
		"count", len(tickets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tickets, nil
}

// Ping verifies connectivity and credentials against the tracker. Used by
// the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/rest/api/3/myself"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}
	req.SetBasicAuth(c.cfg.UserEmail, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinging tracker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tracker ping returned status %d", resp.StatusCode)
	}
	return nil
}
