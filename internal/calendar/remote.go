package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	DefaultRemoteURL   = "https://date.nager.at"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// The API speaks ISO 3166 codes; the city catalogue uses UK for Britain.
var apiCountryCodes = map[string]string{
	"UK": "GB",
}

// Countries whose bank holidays the API only lists per constituent region.
// Their regional entries count as nationwide; elsewhere only global ones do.
var regionalCountries = map[string]bool{
	"UK": true,
}

// RemoteSource implements Source using the Nager.Date public holiday API
type RemoteSource struct {
	baseURL    string
	countries  []string
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[int]*cachedYear
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
}

type cachedYear struct {
	data      []HolidayRecord
	fetchedAt time.Time
}

// publicHoliday is a single entry of the API response
type publicHoliday struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// NewRemoteSource creates a new RemoteSource instance
func NewRemoteSource(baseURL string, countries []string, cacheTTL time.Duration, logger *zap.Logger) *RemoteSource {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &RemoteSource{
		baseURL:   strings.TrimRight(baseURL, "/"),
		countries: countries,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cache:    make(map[int]*cachedYear),
		cacheTTL: cacheTTL,
	}
}

// Holidays returns the public holidays of all configured countries for year.
// Entries falling on the same month/day with the same name are merged.
func (rs *RemoteSource) Holidays(ctx context.Context, year int) ([]HolidayRecord, error) {
	rs.cacheMu.RLock()
	if cached, ok := rs.cache[year]; ok {
		if time.Since(cached.fetchedAt) < rs.cacheTTL {
			rs.cacheMu.RUnlock()
			rs.logger.Debug("Using cached holidays", zap.Int("year", year))
			return copyRecords(cached.data), nil
		}
	}
	rs.cacheMu.RUnlock()

	merged := []HolidayRecord{}
	index := make(map[string]int)

	for _, country := range rs.countries {
		entries, err := rs.fetchCountry(ctx, year, country)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if !entry.Global && !regionalCountries[country] {
				rs.logger.Debug("Skipping regional holiday",
					zap.String("country", country),
					zap.String("name", entry.Name),
					zap.String("date", entry.Date))
				continue
			}

			date, err := time.Parse("2006-01-02", entry.Date)
			if err != nil {
				rs.logger.Warn("Failed to parse date",
					zap.String("date", entry.Date),
					zap.Error(err))
				continue
			}

			monthDay := fmt.Sprintf("%02d-%02d", int(date.Month()), date.Day())
			key := monthDay + "|" + entry.Name
			if i, ok := index[key]; ok {
				if !merged[i].HasAnyCountry([]string{country}) {
					merged[i].Countries = append(merged[i].Countries, country)
				}
				continue
			}

			index[key] = len(merged)
			merged = append(merged, HolidayRecord{
				Name:      entry.Name,
				MonthDay:  monthDay,
				Countries: []string{country},
			})
		}
	}

	rs.cacheMu.Lock()
	rs.cache[year] = &cachedYear{
		data:      merged,
		fetchedAt: time.Now(),
	}
	rs.cacheMu.Unlock()

	rs.logger.Info("Holidays fetched and cached",
		zap.Int("year", year),
		zap.Strings("countries", rs.countries),
		zap.Int("holidays", len(merged)))

	return copyRecords(merged), nil
}

// fetchCountry fetches one country's holidays for year
func (rs *RemoteSource) fetchCountry(ctx context.Context, year int, country string) ([]publicHoliday, error) {
	apiCode := country
	if mapped, ok := apiCountryCodes[country]; ok {
		apiCode = mapped
	}

	// Build URL: https://date.nager.at/api/v3/PublicHolidays/{year}/{countryCode}
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", rs.baseURL, year, apiCode)

	rs.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Int("year", year),
		zap.String("country", country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays for %s: %w", country, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d for %s", resp.StatusCode, country)
	}

	var entries []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return entries, nil
}

// ClearCache clears the cache
func (rs *RemoteSource) ClearCache() {
	rs.cacheMu.Lock()
	defer rs.cacheMu.Unlock()

	rs.cache = make(map[int]*cachedYear)
	rs.logger.Info("Holiday cache cleared")
}
