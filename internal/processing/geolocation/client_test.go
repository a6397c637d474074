package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentvault/internal/processing/models"
	"consentvault/pkg/platform/circuit"
)

func TestLookup(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"8.8.8.8","city":"Mountain View","region":"California","country":"US","loc":"37.4056,-122.0775","org":"AS15169 Google LLC"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", time.Second)
	geo, err := c.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	assert.Equal(t, "/8.8.8.8/json", gotPath)
	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "AS15169 Google LLC", geo.ISP)
	assert.Equal(t, "Mountain View", geo.City)
	require.NotNil(t, geo.Coordinates)
	assert.InDelta(t, 37.4056, geo.Coordinates.Latitude, 1e-9)
}

func TestLookupSkipsNonPublicAddresses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "::1", "fe80::1"} {
		_, err := c.Lookup(context.Background(), ip)
		assert.ErrorIs(t, err, ErrNotRoutable, ip)
	}
	_, err := c.Lookup(context.Background(), "not-an-ip")
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestLookupFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{not json`)) }},
		{"bogon", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"ip":"1.1.1.1","bogon":true}`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) { time.Sleep(200 * time.Millisecond) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, "", 50*time.Millisecond)
			_, err := c.Lookup(context.Background(), "1.1.1.1")
			assert.Error(t, err)
		})
	}
}

func TestLookupOpensCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second,
		WithBreaker(circuit.New("geo-test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))))

	for i := 0; i < 2; i++ {
		_, err := c.Lookup(context.Background(), "1.1.1.1")
		require.Error(t, err)
	}
	_, err := c.Lookup(context.Background(), "1.1.1.1")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestParseLoc(t *testing.T) {
	assert.Equal(t, &models.Coordinates{Latitude: 1.5, Longitude: -2}, parseLoc("1.5,-2"))
	assert.Nil(t, parseLoc(""))
	assert.Nil(t, parseLoc("abc,1"))
	assert.Nil(t, parseLoc("1"))
}
