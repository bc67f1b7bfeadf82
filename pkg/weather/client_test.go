package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentParsesObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("q"))
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(`{"main":{"temp":28.5,"humidity":60},"rain":{"1h":1.2},"weather":[{"main":"Rain","description":"light rain"}]}`))
	}))
	defer srv.Close()

	c := NewOpenWeather(srv.URL, "k", time.Second)
	got, err := c.Current(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, 28.5, got.Temperature)
	assert.Equal(t, 60.0, got.Humidity)
	assert.Equal(t, 1.2, got.Rainfall)
	assert.Equal(t, "light rain", got.Conditions)
}

func TestCurrentDefaultsRainfallToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":28.5,"humidity":60},"weather":[{"main":"Clear","description":"Clear"}]}`))
	}))
	defer srv.Close()

	got, err := NewOpenWeather(srv.URL, "k", time.Second).Current(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Rainfall)
	assert.Equal(t, "Clear", got.Conditions)
}

func TestCurrentPropagatesProviderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	_, err := NewOpenWeather(srv.URL, "k", time.Second).Current(context.Background(), "Atlantis")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusNotFound, perr.Status)
	assert.JSONEq(t, `{"cod":"404","message":"city not found"}`, string(perr.Body))
}

func TestCurrentRejectsIncompletePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenWeather(srv.URL, "k", time.Second).Current(context.Background(), "Pune")
	require.Error(t, err)
	var perr *ProviderError
	assert.False(t, errors.As(err, &perr))
}

func TestCurrentHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewOpenWeather(srv.URL, "k", 20*time.Millisecond).Current(context.Background(), "Pune")
	assert.Error(t, err)
}
