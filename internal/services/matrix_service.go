package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"tripvote/pkg/memcache"
)

type MatrixPoint struct {
	ID  string
	Lat float64
	Lng float64
}

type MatrixEdge struct {
	DistanceMeters int
}

type DistanceMatrix map[string]map[string]MatrixEdge

// Leg is the driving distance between two consecutive activities.
type Leg struct {
	FromID         string `json:"from_id"`
	ToID           string `json:"to_id"`
	DistanceMeters int    `json:"distance_meters"`
}

type DistanceMatrixService interface {
	ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error)
	// Enabled is false when no access token is configured.
	Enabled() bool
}

type MapboxMatrixClient struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
	Cache       *memcache.Store[MatrixEdge]
	Profile     string
	Log         *zap.Logger
}

// NewMapboxMatrixClient builds the client. An empty token disables it.
func NewMapboxMatrixClient(token string, cache *memcache.Store[MatrixEdge], log *zap.Logger) *MapboxMatrixClient {
	if token == "" {
		log.Info("MAPBOX_ACCESS_TOKEN is empty; activity legs are disabled")
	}
	return &MapboxMatrixClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		AccessToken: token,
		BaseURL:     "https://api.mapbox.com",
		Cache:       cache,
		Profile:     "driving",
		Log:         log,
	}
}

func (c *MapboxMatrixClient) Enabled() bool { return c.AccessToken != "" }

func pairKey(mode, a, b string) string {
	return mode + "|" + a + "|" + b
}

func (c *MapboxMatrixClient) ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error) {
	n := len(points)
	if n == 0 || !c.Enabled() {
		return DistanceMatrix{}, nil
	}

	mode := c.Profile
	mat := make(DistanceMatrix, n)
	needCall := false

	for _, p := range points {
		mat[p.ID] = make(map[string]MatrixEdge, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				mat[points[i].ID][points[j].ID] = MatrixEdge{}
				continue
			}
			if v, ok := c.Cache.Get(pairKey(mode, points[i].ID, points[j].ID)); ok {
				mat[points[i].ID][points[j].ID] = v
			} else {
				needCall = true
			}
		}
	}

	if !needCall {
		return mat, nil
	}

	coords := make([]string, 0, n)
	for _, p := range points {
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lng, p.Lat))
	}

	q := url.Values{}
	q.Set("annotations", "distance")
	q.Set("sources", "all")
	q.Set("destinations", "all")
	q.Set("access_token", c.AccessToken)
	endpoint := fmt.Sprintf("%s/directions-matrix/v1/mapbox/%s/%s?%s",
		strings.TrimRight(c.BaseURL, "/"), mode, strings.Join(coords, ";"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox matrix http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("mapbox matrix bad status: %s", resp.Status)
	}

	var payload struct {
		Distances [][]*float64 `json:"distances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("mapbox decode: %w", err)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dM := 0
			if i < len(payload.Distances) && j < len(payload.Distances[i]) && payload.Distances[i][j] != nil {
				dM = int(*payload.Distances[i][j] + 0.5)
			}
			edge := MatrixEdge{DistanceMeters: dM}
			mat[points[i].ID][points[j].ID] = edge
			c.Cache.Set(pairKey(mode, points[i].ID, points[j].ID), edge)
		}
	}

	return mat, nil
}

// ConsecutiveLegs returns the distance of each hop along points. It returns
// nil when the matrix service is disabled or fails; legs are decorative.
func ConsecutiveLegs(ctx context.Context, svc DistanceMatrixService, points []MatrixPoint, log *zap.Logger) []Leg {
	if svc == nil || !svc.Enabled() || len(points) < 2 {
		return nil
	}
	mat, err := svc.ComputeDistances(ctx, points)
	if err != nil {
		log.Warn("distance matrix unavailable", zap.Error(err))
		return nil
	}
	legs := make([]Leg, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1].ID, points[i].ID
		legs = append(legs, Leg{FromID: from, ToID: to, DistanceMeters: mat[from][to].DistanceMeters})
	}
	return legs
}
