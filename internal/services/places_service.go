package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"tripvote/internal/config"
	"tripvote/internal/observability"
	"tripvote/pkg/memcache"
	"tripvote/pkg/utils"
)

// PlacesProvider is the place search and detail collaborator used by the
// planner.
type PlacesProvider interface {
	SearchNearby(ctx context.Context, lat, lon, radius float64, maxResults int, excludedTypes []string) ([]Place, error)
	GetDetails(ctx context.Context, placeID string) (*PlaceDetails, error)
	IsOpen(ctx context.Context, placeID string, date time.Time) (bool, error)
}

type PlaceDetails struct {
	ID           string
	Name         string
	Categories   []string
	OpeningHours *OpeningHours
	Lat          float64
	Lon          float64
	Summary      string
	PhotoURL     string
}

// TimePoint is a weekly instant. Day 0 is Sunday.
type TimePoint struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimePoint) minutes() int { return t.Hour*60 + t.Minute }

type OpeningPeriod struct {
	Open  TimePoint  `json:"open"`
	Close *TimePoint `json:"close,omitempty"`
}

type OpeningHours struct {
	Periods []OpeningPeriod `json:"periods"`
}

// OpenOn reports whether any period opens on the weekday of date. Missing
// hours, or a period without a close time, mean always open.
func (h *OpeningHours) OpenOn(date time.Time) bool {
	if h == nil || len(h.Periods) == 0 {
		return true
	}
	weekday := int(date.Weekday())
	for _, p := range h.Periods {
		if p.Close == nil {
			return true
		}
		if p.Open.Day == weekday {
			return true
		}
	}
	return false
}

// periodOn returns the period that opens on date's weekday.
func (h *OpeningHours) periodOn(date time.Time) (OpeningPeriod, bool) {
	if h == nil {
		return OpeningPeriod{}, false
	}
	weekday := int(date.Weekday())
	for _, p := range h.Periods {
		if p.Open.Day == weekday {
			return p, true
		}
	}
	return OpeningPeriod{}, false
}

// DefaultExcludedTypes keeps services, lodging, transport hubs and shops out
// of nearby searches.
var DefaultExcludedTypes = []string{
	"car_dealer", "car_rental", "car_repair", "car_wash", "electric_vehicle_charging_station",
	"gas_station", "parking", "rest_stop",
	"city_hall", "courthouse", "embassy", "fire_station", "government_office", "local_government_office",
	"police", "post_office",
	"chiropractor", "dental_clinic", "dentist", "doctor", "drugstore", "hospital", "pharmacy",
	"physiotherapist", "medical_lab",
	"apartment_building", "apartment_complex", "condominium_complex", "housing_complex",
	"bed_and_breakfast", "hotel", "lodging",
	"corporate_office", "accounting", "atm", "bank", "funeral_home", "insurance_agency", "lawyer",
	"real_estate_agency", "storage", "telecommunications_service_provider",
	"department_store", "electronics_store", "grocery_store", "hardware_store", "supermarket",
	"warehouse_store",
	"airport", "train_station",
}

const (
	searchFieldMask  = "places.id,places.displayName,places.types"
	detailsFieldMask = "id,displayName,types,location,regularOpeningHours,editorialSummary,photos"

	photoMaxPx = 800
)

// GooglePlacesClient talks to the Places API (New).
type GooglePlacesClient struct {
	HTTP    *http.Client
	APIKey  string
	BaseURL string
	Limiter *rate.Limiter
	Cache   *memcache.Store[*PlaceDetails]
	Log     *zap.Logger
}

func NewGooglePlacesClient(cfg config.PlacesConfig, cache *memcache.Store[*PlaceDetails], log *zap.Logger) *GooglePlacesClient {
	if cfg.APIKey == "" {
		log.Warn("GOOGLE_PLACES_API_KEY is empty; places requests will be rejected upstream")
	}
	rps := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		rps = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &GooglePlacesClient{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		APIKey:  cfg.APIKey,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Limiter: rate.NewLimiter(rps, burst),
		Cache:   cache,
		Log:     log,
	}
}

type googleText struct {
	Text string `json:"text"`
}

type googleLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type googlePlace struct {
	ID                  string        `json:"id"`
	DisplayName         googleText    `json:"displayName"`
	Types               []string      `json:"types"`
	Location            *googleLatLng `json:"location,omitempty"`
	RegularOpeningHours *OpeningHours `json:"regularOpeningHours,omitempty"`
	EditorialSummary    *googleText   `json:"editorialSummary,omitempty"`
	Photos              []googlePhoto `json:"photos,omitempty"`
}

type googlePhoto struct {
	Name string `json:"name"`
}

type searchNearbyRequest struct {
	ExcludedTypes       []string `json:"excludedTypes,omitempty"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center googleLatLng `json:"center"`
			Radius float64      `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

func (c *GooglePlacesClient) SearchNearby(ctx context.Context, lat, lon, radius float64, maxResults int, excludedTypes []string) (places []Place, err error) {
	defer func() { observability.RecordPlacesCall("search_nearby", err) }()

	body := searchNearbyRequest{ExcludedTypes: excludedTypes, MaxResultCount: maxResults}
	body.LocationRestriction.Circle.Center = googleLatLng{Latitude: lat, Longitude: lon}
	body.LocationRestriction.Circle.Radius = radius

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode search: %w", utils.ErrUpstreamUnavailable, err)
	}

	var payload struct {
		Places []googlePlace `json:"places"`
	}
	if err := c.do(ctx, http.MethodPost, c.BaseURL+"/v1/places:searchNearby", searchFieldMask, bytes.NewReader(raw), &payload); err != nil {
		return nil, err
	}

	places = make([]Place, 0, len(payload.Places))
	for _, p := range payload.Places {
		if p.ID == "" {
			continue
		}
		places = append(places, Place{ID: p.ID, Name: p.DisplayName.Text, Categories: p.Types})
	}
	return places, nil
}

func (c *GooglePlacesClient) GetDetails(ctx context.Context, placeID string) (details *PlaceDetails, err error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place id", utils.ErrInvalidInput)
	}
	if c.Cache != nil {
		if d, ok := c.Cache.Get(placeID); ok {
			return d, nil
		}
	}
	defer func() { observability.RecordPlacesCall("get_details", err) }()

	var p googlePlace
	endpoint := c.BaseURL + "/v1/places/" + url.PathEscape(placeID)
	if err := c.do(ctx, http.MethodGet, endpoint, detailsFieldMask, nil, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("%w: details for %s missing id", utils.ErrUpstreamUnavailable, placeID)
	}

	details = &PlaceDetails{
		ID:           p.ID,
		Name:         p.DisplayName.Text,
		Categories:   p.Types,
		OpeningHours: p.RegularOpeningHours,
	}
	if p.Location != nil {
		details.Lat = p.Location.Latitude
		details.Lon = p.Location.Longitude
	}
	if p.EditorialSummary != nil {
		details.Summary = p.EditorialSummary.Text
	}
	if len(p.Photos) > 0 && p.Photos[0].Name != "" {
		details.PhotoURL = c.photoURL(ctx, p.Photos[0].Name)
	}
	if c.Cache != nil {
		c.Cache.Set(placeID, details)
	}
	return details, nil
}

// photoURL resolves a photo resource name to a servable URL. Failures are
// logged and yield "".
func (c *GooglePlacesClient) photoURL(ctx context.Context, photoName string) string {
	var media struct {
		PhotoURI string `json:"photoUri"`
	}
	query := url.Values{}
	query.Set("maxWidthPx", strconv.Itoa(photoMaxPx))
	query.Set("maxHeightPx", strconv.Itoa(photoMaxPx))
	query.Set("skipHttpRedirect", "true")
	endpoint := c.BaseURL + "/v1/" + photoName + "/media?" + query.Encode()

	err := c.do(ctx, http.MethodGet, endpoint, "", nil, &media)
	observability.RecordPlacesCall("get_photo", err)
	if err != nil {
		c.Log.Warn("place photo lookup failed", zap.String("photo", photoName), zap.Error(err))
		return ""
	}
	return media.PhotoURI
}

func (c *GooglePlacesClient) IsOpen(ctx context.Context, placeID string, date time.Time) (bool, error) {
	details, err := c.GetDetails(ctx, placeID)
	if err != nil {
		return false, err
	}
	return details.OpeningHours.OpenOn(date), nil
}

func (c *GooglePlacesClient) do(ctx context.Context, method, endpoint, fieldMask string, body io.Reader, out interface{}) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", utils.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", utils.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", utils.ErrPlaceNotFound, endpoint)
	}
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Log.Warn("places request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return fmt.Errorf("%w: places status %s", utils.ErrUpstreamUnavailable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode places response: %w", utils.ErrUpstreamUnavailable, err)
	}
	return nil
}
