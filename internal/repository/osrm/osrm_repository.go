package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lojaConforto/domain"
)

var ErrNoRoute = errors.New("no driving route found")

type OSRMConfig struct {
	BaseURL string
}

type OSRMRepository struct {
	osrmConfig OSRMConfig
	client     *http.Client
}

func NewOSRMRepository(cfg OSRMConfig) *OSRMRepository {
	return &OSRMRepository{
		osrmConfig: cfg,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64     `json:"distance"`
		Duration float64     `json:"duration"`
		Geometry interface{} `json:"geometry"`
	} `json:"routes"`
}

func (r *OSRMRepository) DrivingRoute(ctx context.Context, from, to domain.Coordinates) (domain.DrivingRoute, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		r.osrmConfig.BaseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DrivingRoute{}, err
	}

	res, err := r.client.Do(req)
	if err != nil {
		return domain.DrivingRoute{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.DrivingRoute{}, fmt.Errorf("routing request failed with status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.DrivingRoute{}, err
	}

	var parsed routeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.DrivingRoute{}, fmt.Errorf("failed to decode routing response: %w", err)
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return domain.DrivingRoute{}, ErrNoRoute
	}

	best := parsed.Routes[0]
	return domain.DrivingRoute{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}, nil
}
