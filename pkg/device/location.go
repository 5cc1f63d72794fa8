package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/Adda-Baaj/defect-reporter/pkg/httpclient"
	"github.com/go-resty/resty/v2"
	"github.com/golang/geo/s2"
)

// Locator provides the device position.
type Locator interface {
	RequestForegroundPermission(ctx context.Context) (PermissionStatus, error)
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

// ValidateFix rejects coordinates outside the valid latitude/longitude ranges.
func ValidateFix(c domain.Coordinates) error {
	ll := s2.LatLngFromDegrees(c.Latitude, c.Longitude)
	if !ll.IsValid() {
		return fmt.Errorf("invalid position (lat %f, long %f)", c.Latitude, c.Longitude)
	}
	return nil
}

// ErrNoFix is returned when no position is available.
var ErrNoFix = errors.New("no location fix available")

// StaticLocator always reports the same configured fix. A nil fix never
// resolves.
type StaticLocator struct {
	perms Permissions
	fix   *domain.Coordinates
}

func NewStaticLocator(perms Permissions, fix *domain.Coordinates) *StaticLocator {
	if fix != nil {
		cp := *fix
		fix = &cp
	}
	return &StaticLocator{perms: perms, fix: fix}
}

func (l *StaticLocator) RequestForegroundPermission(ctx context.Context) (PermissionStatus, error) {
	return requestLocation(ctx, l.perms)
}

func (l *StaticLocator) CurrentPosition(context.Context) (domain.Coordinates, error) {
	if l.fix == nil {
		return domain.Coordinates{}, fmt.Errorf("static locator: %w", ErrNoFix)
	}
	if err := ValidateFix(*l.fix); err != nil {
		return domain.Coordinates{}, err
	}
	return *l.fix, nil
}

// HTTPLocator resolves the position from a geolocation endpoint returning
// {"latitude": .., "longitude": ..}.
type HTTPLocator struct {
	perms  Permissions
	client *resty.Client
	url    string
}

func NewHTTPLocator(perms Permissions, url string, timeout time.Duration) *HTTPLocator {
	return &HTTPLocator{
		perms:  perms,
		client: httpclient.NewRestyHTTPClient("", timeout),
		url:    url,
	}
}

func (l *HTTPLocator) RequestForegroundPermission(ctx context.Context) (PermissionStatus, error) {
	return requestLocation(ctx, l.perms)
}

func (l *HTTPLocator) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.url)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geolocation returned status %d", resp.StatusCode())
	}

	var payload struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geolocation: %w", err)
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation response has no coordinates")
	}

	fix := domain.Coordinates{Latitude: *payload.Latitude, Longitude: *payload.Longitude}
	if err := ValidateFix(fix); err != nil {
		return domain.Coordinates{}, err
	}
	return fix, nil
}

func requestLocation(ctx context.Context, perms Permissions) (PermissionStatus, error) {
	if perms == nil {
		return StatusUndetermined, nil
	}
	return perms.Request(ctx, PermissionLocation)
}
