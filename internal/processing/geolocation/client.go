// Package geolocation resolves a network address to a coarse geography and
// ISP snapshot using an ipinfo-compatible HTTP API.
package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"consentvault/internal/processing/models"
	"consentvault/pkg/platform/circuit"
	"consentvault/pkg/platform/privacy"
)

var (
	// ErrNotRoutable is returned for loopback, private and otherwise
	// non-public addresses; no lookup is attempted.
	ErrNotRoutable = errors.New("address is not publicly routable")
	// ErrCircuitOpen is returned while the breaker is shedding calls.
	ErrCircuitOpen = errors.New("geolocation circuit open")
)

const (
	defaultTimeout  = 2 * time.Second
	maxResponseSize = 16 << 10
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type response struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Org     string `json:"org"`
	Bogon   bool   `json:"bogon"`
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// Client calls GET {baseURL}/{ip}/json?token={token}.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    HTTPDoer
	tracer  trace.Tracer
	breaker *circuit.Breaker
}

func New(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("consentvault/geolocation"),
		breaker: circuit.New("geolocation"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves ip. Every failure is returned as an error; callers decide
// whether to degrade.
func (c *Client) Lookup(ctx context.Context, ip string) (geo models.Geo, err error) {
	ctx, span := c.tracer.Start(ctx, "geolocation.lookup",
		trace.WithAttributes(attribute.String("client.address_prefix", privacy.AnonymizeIP(ip))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return models.Geo{}, fmt.Errorf("parse address: %w", err)
	}
	addr = addr.Unmap()
	if !isPublic(addr) {
		return models.Geo{}, ErrNotRoutable
	}

	if !c.breaker.Allow() {
		span.SetAttributes(attribute.String("circuit.state", c.breaker.State().String()))
		return models.Geo{}, ErrCircuitOpen
	}

	geo, err = c.fetch(ctx, addr.String())
	if err != nil {
		// A bogon answer means the upstream is healthy.
		if errors.Is(err, ErrNotRoutable) {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
		}
		return models.Geo{}, err
	}
	c.breaker.RecordSuccess()
	return geo, nil
}

func (c *Client) fetch(ctx context.Context, ip string) (models.Geo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(ip))
	if c.token != "" {
		endpoint += "?token=" + url.QueryEscape(c.token)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Geo{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.Geo{}, fmt.Errorf("geolocation timeout: %w", err)
		}
		return models.Geo{}, fmt.Errorf("geolocation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Geo{}, fmt.Errorf("geolocation: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.Geo{}, fmt.Errorf("read geolocation response: %w", err)
	}
	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.Geo{}, fmt.Errorf("decode geolocation response: %w", err)
	}
	if parsed.Bogon {
		return models.Geo{}, ErrNotRoutable
	}

	return models.Geo{
		ISP:         parsed.Org,
		City:        parsed.City,
		Region:      parsed.Region,
		Country:     parsed.Country,
		Coordinates: parseLoc(parsed.Loc),
	}, nil
}

// parseLoc reads "lat,lon". Anything malformed yields nil.
func parseLoc(loc string) *models.Coordinates {
	latRaw, lonRaw, ok := strings.Cut(loc, ",")
	if !ok {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return nil
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}
}

func isPublic(addr netip.Addr) bool {
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsMulticast()
}
