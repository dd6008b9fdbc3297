package ecoharmonogram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"waste-schedule-service/internal/logging"
)

// Config controls how the ecoharmonogram client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Verbose dumps request fields and response bodies at debug level.
	Verbose bool
}

// Client issues the two request shapes the remote service expects (plain GET
// and hand-built multipart POST) and decodes the {success, data} envelopes.
type Client struct {
	baseURL    string
	httpClient httpDoer
	logger     *slog.Logger
	verbose    bool
}

// NewClient constructs an ecoharmonogram client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
		verbose:    cfg.Verbose,
	}
}

// Towns lists the towns available for a community.
func (c *Client) Towns(ctx context.Context, communityID string) ([]Town, error) {
	data, err := c.get(ctx, pathTowns, url.Values{"communityId": {communityID}})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var payload townsData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{Endpoint: pathTowns, Err: err}
	}
	return payload.Towns, nil
}

// SchedulePeriods lists all schedule periods the provider knows for a
// community, unfiltered.
func (c *Client) SchedulePeriods(ctx context.Context, communityID string) ([]SchedulePeriod, error) {
	data, err := c.get(ctx, pathSchedulePeriods, url.Values{"communityId": {communityID}})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var payload periodsData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{Endpoint: pathSchedulePeriods, Err: err}
	}
	return payload.SchedulePeriods, nil
}

// StreetsForTown lists the street rows for a town within a period.
func (c *Client) StreetsForTown(ctx context.Context, townID, periodID string) ([]Street, error) {
	data, err := c.postForm(ctx, pathStreetsForTown, []formField{
		{Name: "townId", Value: townID},
		{Name: "periodId", Value: periodID},
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var streets []Street
	if err := json.Unmarshal(data, &streets); err != nil {
		return nil, &TransportError{Endpoint: pathStreetsForTown, Err: err}
	}
	return streets, nil
}

// StreetsQuery identifies a street/building for the building-group call.
type StreetsQuery struct {
	ChoosedStreetIDs string
	Number           string
	TownID           string
	StreetName       string
	PeriodID         string
}

// Streets resolves a street selection into either concrete street rows or a
// set of building-type groups, depending on how the provider organizes the
// target street.
func (c *Client) Streets(ctx context.Context, q StreetsQuery) (GroupsResult, error) {
	data, err := c.postForm(ctx, pathStreets, []formField{
		{Name: "choosedStreetIds", Value: q.ChoosedStreetIDs},
		{Name: "number", Value: q.Number},
		{Name: "townId", Value: q.TownID},
		{Name: "streetName", Value: q.StreetName},
		{Name: "schedulePeriodId", Value: q.PeriodID},
		{Name: "groupId", Value: defaultGroupID},
	})
	if err != nil {
		return GroupsResult{}, err
	}
	if data == nil {
		return GroupsResult{}, nil
	}

	var payload GroupsResult
	if err := json.Unmarshal(data, &payload); err != nil {
		return GroupsResult{}, &TransportError{Endpoint: pathStreets, Err: err}
	}
	return payload, nil
}

// ScheduleQuery identifies the location whose schedule is fetched.
type ScheduleQuery struct {
	Number     string
	StreetID   string
	TownID     string
	StreetName string
	PeriodID   string
}

// Schedules fetches the raw schedule rows and category descriptions for a
// location within a period.
func (c *Client) Schedules(ctx context.Context, q ScheduleQuery) (SchedulePayload, error) {
	data, err := c.postForm(ctx, pathSchedules, []formField{
		{Name: "number", Value: q.Number},
		{Name: "streetId", Value: q.StreetID},
		{Name: "townId", Value: q.TownID},
		{Name: "streetName", Value: q.StreetName},
		{Name: "schedulePeriodId", Value: q.PeriodID},
		{Name: "lng", Value: scheduleLanguage},
	})
	if err != nil {
		return SchedulePayload{}, err
	}
	if data == nil {
		return SchedulePayload{}, nil
	}

	var payload SchedulePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return SchedulePayload{}, &TransportError{Endpoint: pathSchedules, Err: err}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	req.URL.RawQuery = query.Encode()

	if c.verbose {
		logging.Debug(c.logger, "provider request",
			slog.String(logging.FieldEndpoint, path),
			slog.String("query", req.URL.RawQuery),
		)
	}
	return c.do(req, path)
}

func (c *Client) postForm(ctx context.Context, path string, fields []formField) (json.RawMessage, error) {
	body, contentType := encodeForm(fields)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Origin", originHeader)

	if c.verbose {
		logging.Debug(c.logger, "provider request",
			slog.String(logging.FieldEndpoint, path),
			slog.String("body", body),
		)
	}
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, endpoint string) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	if c.verbose {
		logging.Debug(c.logger, "provider response",
			slog.String(logging.FieldEndpoint, endpoint),
			slog.Int(logging.FieldStatusCode, resp.StatusCode),
			slog.String("body", string(raw)),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	if !env.Success || len(env.Data) == 0 {
		// "No results" per contract; callers return empty collections.
		return nil, nil
	}
	return env.Data, nil
}
