package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

var ErrGeoUnavailable = errors.New("geo lookup unavailable")

// Geo is where a request came from, used to localize security emails.
type Geo struct {
	City     string
	Region   string
	Country  string
	Timezone string
}

type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (Geo, error)
}

// FormatGeo joins the non-empty parts as "City, Region, Country".
func FormatGeo(g Geo) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{g.City, g.Region, g.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// IPAPIResolver queries ip-api.com. Private and loopback addresses are
// rejected without a network call.
type IPAPIResolver struct {
	Client  *http.Client
	BaseURL string // defaults to http://ip-api.com
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
}

func (r IPAPIResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return Geo{}, fmt.Errorf("%w: invalid ip %q", ErrGeoUnavailable, ip)
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() {
		return Geo{}, fmt.Errorf("%w: non-public ip", ErrGeoUnavailable)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = "http://ip-api.com"
	}
	url := base + "/json/" + parsed.String() + "?fields=status,message,country,regionName,city,timezone"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Geo{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Geo{}, fmt.Errorf("%w: status %d", ErrGeoUnavailable, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Geo{}, err
	}
	if !strings.EqualFold(body.Status, "success") {
		return Geo{}, fmt.Errorf("%w: %s", ErrGeoUnavailable, body.Message)
	}
	return Geo{City: body.City, Region: body.RegionName, Country: body.Country, Timezone: body.Timezone}, nil
}

type cachedGeo struct {
	geo Geo
	err error
	at  time.Time
}

// CachedResolver memoizes lookups, failures included, for TTL.
type CachedResolver struct {
	Next GeoResolver
	TTL  time.Duration

	mu    sync.Mutex
	items map[string]cachedGeo
	now   func() time.Time
}

func NewCachedResolver(next GeoResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{Next: next, TTL: ttl, items: map[string]cachedGeo{}, now: time.Now}
}

func (c *CachedResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	ip = strings.TrimSpace(ip)
	c.mu.Lock()
	if hit, ok := c.items[ip]; ok && c.now().Sub(hit.at) < c.TTL {
		c.mu.Unlock()
		return hit.geo, hit.err
	}
	c.mu.Unlock()

	g, err := c.Next.Lookup(ctx, ip)
	if ctx.Err() != nil {
		return g, err
	}
	c.mu.Lock()
	c.items[ip] = cachedGeo{geo: g, err: err, at: c.now()}
	c.mu.Unlock()
	return g, err
}
