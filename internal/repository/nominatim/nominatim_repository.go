package nominatim

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

	"lojaConforto/domain"
)

// ErrNoResults means the geocoder answered but found nothing for the
// query. Callers surface this as a warning, not a failure.
var ErrNoResults = errors.New("no geocoding results for address")

type NominatimConfig struct {
	BaseURL string
}

type NominatimRepository struct {
	nominatimConfig NominatimConfig
	client          *http.Client
}

func NewNominatimRepository(cfg NominatimConfig) *NominatimRepository {
	return &NominatimRepository{
		nominatimConfig: cfg,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (r *NominatimRepository) Search(ctx context.Context, address string) (domain.GeocodeResult, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		r.nominatimConfig.BaseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "lojaConforto/1.0")

	res, err := r.client.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.GeocodeResult{}, fmt.Errorf("geocoding request failed with status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.GeocodeResult{}, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(results) == 0 {
		return domain.GeocodeResult{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("invalid latitude in geocoding response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("invalid longitude in geocoding response: %w", err)
	}

	return domain.GeocodeResult{
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		DisplayName: results[0].DisplayName,
	}, nil
}
