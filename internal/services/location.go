package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"

	"github.com/go-resty/resty/v2"
)

// LocationService geocodes free-text locations through a
// Nominatim-compatible search endpoint.
type LocationService struct {
	client   *resty.Client
	endpoint string
}

// NewLocationService creates a new location service
func NewLocationService(endpoint string, timeout time.Duration) *LocationService {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "linkhub/1.0")

	return &LocationService{
		client:   client,
		endpoint: endpoint,
	}
}

type geocodeResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve geocodes query and returns the best match. Returns
// ErrLocationUnavailable when the endpoint has no match for it.
func (s *LocationService) Resolve(ctx context.Context, query string) (*models.Location, error) {
	var results []geocodeResult

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocode request failed with status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, pkg.ErrLocationUnavailable
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode returned invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode returned invalid longitude %q: %w", results[0].Lon, err)
	}

	return &models.Location{
		ProvidedLocation: query,
		Name:             results[0].DisplayName,
		Lat:              lat,
		Lon:              lon,
	}, nil
}
