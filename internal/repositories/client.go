package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"forecastx/pkg/logger"
	"forecastx/pkg/observe"
)

// OpenMeteoErrorResponse is the body Open-Meteo sends with 4xx responses.
type OpenMeteoErrorResponse struct {
	Error   bool   `json:"error"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

type upstream struct {
	name       string
	baseURL    string
	httpClient HTTPClient
	telemetry  *observe.Telemetry
	l          *logger.Logger
}

// getJSON performs one GET and decodes a 200 response into out. There are no retries.
func (u *upstream) getJSON(ctx context.Context, query url.Values, out any) (err error) {
	reqURL := fmt.Sprintf("%s?%s", u.baseURL, query.Encode())

	started := time.Now()
	status := 0
	defer func() {
		u.telemetry.TrackDependency(u.name, u.target(), started, err == nil, status)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to do request")
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	u.l.Debug("received upstream response", map[string]any{
		"upstream":   u.name,
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp OpenMeteoErrorResponse
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error {
			return errors.Errorf("API error (status %d): %s", resp.StatusCode, errorResp.Reason)
		}
		return errors.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to parse JSON response")
	}

	return nil
}

func (u *upstream) target() string {
	parsed, err := url.Parse(u.baseURL)
	if err != nil || parsed.Host == "" {
		return u.baseURL
	}
	return parsed.Host
}
