// Package geocode resolves addresses through a Nominatim endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"parcelpeer/config"
	"parcelpeer/internal/entities"
	"parcelpeer/internal/gateway/breaker"

	"go.uber.org/zap"
)

const maxLimit = 10

// Nominatim is an OpenStreetMap search client.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
	breaker   *breaker.Breaker
	log       *zap.SugaredLogger
}

// New creates a Nominatim client.
func New(cfg config.GeocoderConfig, log *zap.SugaredLogger) *Nominatim {
	log = log.Named("geocode")
	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		breaker:   breaker.New("nominatim", log),
		log:       log,
	}
}

type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns up to limit places matching query.
func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]entities.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", entities.ErrInvalidArgument)
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	var found []place
	err := n.breaker.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
		if err != nil {
			return breaker.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", n.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := n.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", entities.ErrGatewayUnavailable, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: nominatim status %d", entities.ErrGatewayUnavailable, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
			return fmt.Errorf("%w: decode response: %v", entities.ErrGatewayUnavailable, err)
		}
		return nil
	})
	if err != nil {
		n.log.Warnw("geocode search failed", "error", err, "query", query)
		return nil, err
	}

	places := make([]entities.Place, 0, len(found))
	for _, f := range found {
		lat, errLat := strconv.ParseFloat(f.Lat, 64)
		lng, errLng := strconv.ParseFloat(f.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		places = append(places, entities.Place{DisplayName: f.DisplayName, Lat: lat, Lng: lng})
	}
	return places, nil
}
