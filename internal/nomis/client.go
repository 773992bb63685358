// Package nomis queries the Nomis statistical API, which carries the
// principal projection variant as table NM_2009_1. The other variants are
// only published as zipped workbooks and go through the archive pipeline
// instead.
package nomis

import (
	"context"
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harborstats/ukproj/internal/npp"
	"github.com/harborstats/ukproj/internal/utils"
)

// DefaultBaseURL is the public Nomis API endpoint.
const DefaultBaseURL = "https://www.nomisweb.co.uk/api/v01"

// principalTable is the 2016-based national population projection dataset
// (principal variant only).
const principalTable = "NM_2009_1"

// APIError indicates a failed or malformed statistical-API response.
type APIError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nomis: %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("nomis: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client fetches tidy observation tables from the Nomis API. Responses are
// cached on disk keyed by table and query, so repeated startups do not re-hit
// the API.
type Client struct {
	baseURL    string
	apiKey     string
	cacheDir   string
	httpClient *http.Client
}

// New returns a client. baseURL may be empty for the public endpoint; apiKey
// may be empty for anonymous (rate-limited) access.
func New(baseURL, apiKey, cacheDir string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PrincipalProjection returns the principal-variant table for all four
// countries, all years and ages 0-104, both genders. The API encodes age as
// a 1-based offset; the returned observations carry the actual age.
func (c *Client) PrincipalProjection(ctx context.Context) (npp.Table, error) {
	params := url.Values{
		"gender":         {"1,2"},
		"c_age":          {"1...105"},
		"measures":       {"20100"},
		"date":           {"latest"},
		"projected_year": {"2016...2116"},
		"geography":      {"2092957699...2092957702"},
		"select":         {"geography_code,projected_year_name,gender,c_age,obs_value"},
	}
	body, err := c.getCSV(ctx, principalTable, params)
	if err != nil {
		return nil, err
	}
	table, err := parseObservations(body)
	if err != nil {
		return nil, &APIError{Err: fmt.Errorf("parse %s response: %w", principalTable, err)}
	}
	// The API's age index is 1-based.
	for i := range table {
		table[i].Age--
	}
	return table, nil
}

// getCSV performs the dataset query, going through the on-disk response
// cache when possible.
func (c *Client) getCSV(ctx context.Context, table string, params url.Values) ([]byte, error) {
	cachePath := c.cachePath(table, params)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	query := params.Encode()
	if c.apiKey != "" {
		query += "&uid=" + url.QueryEscape(c.apiKey)
	}
	u := fmt.Sprintf("%s/dataset/%s.data.csv?%s", c.baseURL, table, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{URL: u, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{URL: u, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{URL: u, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{URL: u, Err: err}
	}
	if cachePath != "" {
		if err := utils.SafeWriteFile(cachePath, data); err != nil {
			return nil, fmt.Errorf("cache response: %w", err)
		}
	}
	return data, nil
}

// cachePath derives the response cache file from the table and query. The
// api key is deliberately excluded so the key does not leak into filenames.
func (c *Client) cachePath(table string, params url.Values) string {
	if c.cacheDir == "" {
		return ""
	}
	sum := sha1.Sum([]byte(params.Encode()))
	return filepath.Join(c.cacheDir, table+"_"+hex.EncodeToString(sum[:8])+".csv")
}

// parseObservations reads a tidy Nomis CSV response. Columns are located by
// header name, so the server's column order does not matter.
func parseObservations(data []byte) (npp.Table, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty response")
	}
	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, want := range []string{npp.FieldGeography, npp.FieldYear, npp.FieldGender, npp.FieldAge, npp.FieldValue} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("missing column %s", want)
		}
	}
	table := make(npp.Table, 0, len(records)-1)
	for i, rec := range records[1:] {
		year, err := strconv.Atoi(rec[col[npp.FieldYear]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad year %q", i+1, rec[col[npp.FieldYear]])
		}
		gender, err := strconv.Atoi(rec[col[npp.FieldGender]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad gender %q", i+1, rec[col[npp.FieldGender]])
		}
		age, err := strconv.Atoi(rec[col[npp.FieldAge]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad age %q", i+1, rec[col[npp.FieldAge]])
		}
		value, err := strconv.ParseFloat(rec[col[npp.FieldValue]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad value %q", i+1, rec[col[npp.FieldValue]])
		}
		table = append(table, npp.Observation{
			GeographyCode: rec[col[npp.FieldGeography]],
			Year:          year,
			Gender:        gender,
			Age:           age,
			Value:         value,
		})
	}
	return table, nil
}
