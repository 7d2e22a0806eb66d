// Package client is the consumer side of the dashboard API, used by the CLI
// front end. It performs single requests with no retries and no caching.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	internalerrors "github.com/Schera-ole/perfboard/internal/errors"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// Config carries the connection settings for a Client. The base URL is
// injected here; nothing in the package holds it globally.
type Config struct {
	// BaseURL is the root of the dashboard API, e.g. "http://localhost:8080"
	BaseURL string

	// Timeout bounds each request; zero means no timeout
	Timeout time.Duration
}

// Client fetches dashboard data over HTTP.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a Client for the given configuration.
func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// FetchUsers retrieves the list of all known users.
func (c *Client) FetchUsers(ctx context.Context) (models.UsersResponse, error) {
	var resp models.UsersResponse
	if err := c.getJSON(ctx, "/api/users", &resp); err != nil {
		return models.UsersResponse{}, err
	}
	return resp, nil
}

// FetchDashboard retrieves the dashboard for one user alias.
func (c *Client) FetchDashboard(ctx context.Context, alias string) (models.DashboardResponse, error) {
	var resp models.DashboardResponse
	if err := c.getJSON(ctx, "/api/dashboard/"+url.PathEscape(alias), &resp); err != nil {
		return models.DashboardResponse{}, err
	}
	return resp, nil
}

// FetchTeam retrieves the aggregated team dashboard for a manager alias.
func (c *Client) FetchTeam(ctx context.Context, manager string) (models.TeamDashboardResponse, error) {
	var resp models.TeamDashboardResponse
	if err := c.getJSON(ctx, "/api/team-dashboard/"+url.PathEscape(manager), &resp); err != nil {
		return models.TeamDashboardResponse{}, err
	}
	return resp, nil
}

// getJSON performs one GET and decodes the response, translating the API's
// error envelope into a wrapped ErrBadStatus.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request for %s: %w", path, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("error sending request for %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var envelope models.ErrorResponse
		if decodeErr := json.NewDecoder(response.Body).Decode(&envelope); decodeErr == nil && envelope.Error != "" {
			return fmt.Errorf("%s: %s: %w", path, envelope.Error, internalerrors.ErrBadStatus)
		}
		return fmt.Errorf("%s: status %d: %w", path, response.StatusCode, internalerrors.ErrBadStatus)
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response for %s: %w", path, err)
	}
	return nil
}
