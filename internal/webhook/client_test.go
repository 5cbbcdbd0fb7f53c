package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poultrydx/pkg/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) (*Client, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	c, err := NewClient(Options{Endpoint: ts.URL + "/webhook/poultry-dx", PathMarker: "webhook", Timeout: timeout})
	require.NoError(t, err)
	return c, &calls
}

type captured struct {
	method, contentType string
	body                map[string]any
}

func TestSend_PostsJSONPayload(t *testing.T) {
	seen := make(chan captured, 1)
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cp := captured{method: r.Method, contentType: r.Header.Get("Content-Type")}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &cp.body)
		seen <- cp
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"diagnosis":"Coccidiosis"}`))
	}, time.Second)

	res, err := c.Send(context.Background(), Build(types.SpeciesChicken, 10, "  coughing \n"))
	require.NoError(t, err)
	got := <-seen
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"diagnosis":"Coccidiosis"}`, string(res.Body))
	require.Len(t, got.body, 3)
	assert.Equal(t, "chicken", got.body["species"])
	assert.Equal(t, float64(10), got.body["age_weeks"])
	assert.Equal(t, "coughing", got.body["symptoms"])
}

func TestSend_Non2xxIsTransportError(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"diagnosis":"ignored"}`))
	}, time.Second)

	_, err := c.Send(context.Background(), Build(types.SpeciesTurkey, 1, "x"))
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Contains(t, te.Error(), "500")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
}

func TestSend_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 100*time.Millisecond)
	defer close(release)

	_, err := c.Send(context.Background(), Build(types.SpeciesQuail, 2, "x"))
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout)
	assert.Zero(t, te.Status)
}

func TestSend_NetworkErrorIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL + "/webhook/x"
	ts.Close()
	c, err := NewClient(Options{Endpoint: url, PathMarker: "webhook", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), Build(types.SpeciesDuck, 0, ""))
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.False(t, IsConfigurationError(err))
}

func TestSend_ResponseLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer ts.Close()
	c, err := NewClient(Options{Endpoint: ts.URL + "/webhook", PathMarker: "webhook", MaxResponseBytes: 4})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), Build(types.SpeciesDuck, 0, ""))
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestNewClient_ConfigurationError(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "", PathMarker: "webhook"})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsTransportError(err))

	_, err = NewClient(Options{Endpoint: "https://YOURNAME.app.n8n.cloud/api/poultry-dx", PathMarker: "webhook"})
	assert.True(t, IsConfigurationError(err))
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "https://h/webhook/x"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.Timeout())
	assert.Equal(t, "https://h/webhook/x", c.Endpoint())
}
