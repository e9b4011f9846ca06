package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsSource fetches tables from a Google Sheets spreadsheet through the
// values API. Each sheet tab is one table; the first row is the header.
type SheetsSource struct {
	baseURL       string
	spreadsheetID string
	apiKey        string
	httpClient    *http.Client
	logger        *zap.Logger
}

type SheetsOptions struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	Timeout       time.Duration
	Logger        *zap.Logger
}

// NewSheetsSource creates a Sheets-backed tabular source.
func NewSheetsSource(opts SheetsOptions) (*SheetsSource, error) {
	if opts.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets source: spreadsheet id is required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("sheets source: api key is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultSheetsBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &SheetsSource{
		baseURL:       opts.BaseURL,
		spreadsheetID: opts.SpreadsheetID,
		apiKey:        opts.APIKey,
		httpClient:    &http.Client{Timeout: opts.Timeout},
		logger:        opts.Logger.Named("sheets-source"),
	}, nil
}

type valuesResponse struct {
	Values [][]any `json:"values"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Fetch retrieves one sheet tab as a grid. A non-2xx response or a malformed
// body surfaces as ErrDataSource; there is no retry at this layer.
func (s *SheetsSource) Fetch(ctx context.Context, table string) (Grid, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s?key=%s",
		s.baseURL, s.spreadsheetID, url.PathEscape(table), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for table %q: %v", ErrDataSource, table, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch table %q: %v", ErrDataSource, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiErrorResponse
		msg := resp.Status
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		s.logger.Error("sheet fetch failed",
			zap.String("table", table),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, fmt.Errorf("%w: table %q: %s", ErrDataSource, table, msg)
	}

	var body valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode table %q: %v", ErrDataSource, table, err)
	}

	grid := make(Grid, 0, len(body.Values))
	for _, row := range body.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = stringifyCell(v)
		}
		grid = append(grid, cells)
	}

	s.logger.Debug("sheet fetched",
		zap.String("table", table),
		zap.Int("rows", len(grid)))
	return grid, nil
}

// stringifyCell renders a JSON cell value as its sheet text. The values API
// usually returns strings, but unformatted ranges can yield numbers or bools.
func stringifyCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", c)
	}
}
