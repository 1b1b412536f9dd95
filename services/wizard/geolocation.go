package wizard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"platter/models"

	"github.com/go-resty/resty/v2"
)

// GeolocationCode is a terminal failure of a location request.
type GeolocationCode string

const (
	GeoPermissionDenied    GeolocationCode = "permission_denied"
	GeoPositionUnavailable GeolocationCode = "position_unavailable"
	GeoTimeout             GeolocationCode = "timeout"
	GeoUnknown             GeolocationCode = "unknown"
	GeoUnsupported         GeolocationCode = "unsupported"
)

const geoSuccessMessage = "Location captured successfully!"

var geoMessages = map[GeolocationCode]string{
	GeoPermissionDenied:    "Location access was denied. Please allow location access and try again.",
	GeoPositionUnavailable: "Location information is unavailable. Please try again later.",
	GeoTimeout:             "The request to get your location timed out. Please try again.",
	GeoUnknown:             "An unknown error occurred while fetching your location.",
	GeoUnsupported:         "Geolocation is not supported by your browser.",
}

// Valid reports whether c is a known failure code.
func (c GeolocationCode) Valid() bool {
	_, ok := geoMessages[c]
	return ok
}

// GeolocationError is a failed location request with a user-facing message per code.
type GeolocationError struct {
	Code GeolocationCode
	Err  error
}

func (e *GeolocationError) Error() string {
	if msg, ok := geoMessages[e.Code]; ok {
		return msg
	}
	return geoMessages[GeoUnknown]
}

func (e *GeolocationError) Unwrap() error {
	return e.Err
}

// Locator resolves the position of the person filling in the wizard.
type Locator interface {
	// Supported is checked before any request is made.
	Supported() bool
	Locate(ctx context.Context) (models.Coordinates, error)
}

// GeolocationResult is returned after a successful location request.
type GeolocationResult struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Message string  `json:"message"`
}

// DeviceReport is the outcome of the browser's own geolocation call, relayed
// by the page: either coordinates or a failure code.
type DeviceReport struct {
	Coordinates *models.Coordinates
	Code        GeolocationCode
}

func (r DeviceReport) Supported() bool {
	return r.Code != GeoUnsupported
}

func (r DeviceReport) Locate(_ context.Context) (models.Coordinates, error) {
	if r.Code != "" {
		if !r.Code.Valid() {
			return models.Coordinates{}, &GeolocationError{Code: GeoUnknown}
		}
		return models.Coordinates{}, &GeolocationError{Code: r.Code}
	}
	if r.Coordinates == nil || !validCoordinates(*r.Coordinates) {
		return models.Coordinates{}, &GeolocationError{Code: GeoPositionUnavailable}
	}
	return *r.Coordinates, nil
}

func validCoordinates(c models.Coordinates) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLookup approximates a position from the client IP through an ip-api style
// service. Recent results are kept in a bounded cache.
type IPLookup struct {
	client  *resty.Client
	timeout time.Duration
	cache   *ipCache
}

const (
	ipCacheSize = 1024
	ipCacheTTL  = 6 * time.Hour
)

// NewIPLookup creates a lookup against baseURL, e.g. "http://ip-api.com/json/".
func NewIPLookup(baseURL string, timeout time.Duration) *IPLookup {
	return &IPLookup{
		client:  resty.New().SetBaseURL(baseURL),
		timeout: timeout,
		cache:   newIPCache(ipCacheSize, ipCacheTTL),
	}
}

// For returns a Locator bound to ip.
func (l *IPLookup) For(ip string) Locator {
	return ipLocator{lookup: l, ip: ip}
}

type ipLocator struct {
	lookup *IPLookup
	ip     string
}

// Supported is false for addresses no lookup service can place.
func (l ipLocator) Supported() bool {
	parsed := net.ParseIP(l.ip)
	if parsed == nil {
		return false
	}
	return !(parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast())
}

func (l ipLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if cached, ok := l.lookup.cache.Get(l.ip); ok {
		return cached, nil
	}

	if l.lookup.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.lookup.timeout)
		defer cancel()
	}

	var body ipAPIResponse
	resp, err := l.lookup.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(l.ip)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Coordinates{}, &GeolocationError{Code: GeoTimeout, Err: err}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return models.Coordinates{}, &GeolocationError{Code: GeoTimeout, Err: err}
		}
		return models.Coordinates{}, &GeolocationError{Code: GeoPositionUnavailable, Err: err}
	}
	if resp.IsError() || body.Status != "success" {
		return models.Coordinates{}, &GeolocationError{
			Code: GeoPositionUnavailable,
			Err:  fmt.Errorf("ip lookup failed: status %d: %s", resp.StatusCode(), body.Message),
		}
	}

	coords := models.Coordinates{Lat: body.Lat, Lng: body.Lon}
	l.lookup.cache.Set(l.ip, coords)
	return coords, nil
}
