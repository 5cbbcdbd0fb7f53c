package submit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poultrydx/internal/webhook"
	"poultrydx/pkg/types"
)

type fakeSender struct {
	calls int32
	got   types.DiagnosisRequest
	body  string
	err   error
}

func (f *fakeSender) Send(ctx context.Context, req types.DiagnosisRequest) (webhook.RawResult, error) {
	atomic.AddInt32(&f.calls, 1)
	f.got = req
	if f.err != nil {
		return webhook.RawResult{}, f.err
	}
	return webhook.RawResult{Status: 200, Body: []byte(f.body)}, nil
}

func TestRun_Structured(t *testing.T) {
	fs := &fakeSender{body: `{"diagnosis":"Coccidiosis","confidence":"high"}`}
	sub := WithSender(fs).New()
	require.Equal(t, StateIdle, sub.State())
	require.NotEmpty(t, sub.ID())

	out := sub.Run(context.Background(), Input{Species: "Chicken", AgeWeeks: 10, Symptoms: "  bloody droppings  "})
	require.NoError(t, out.Err)
	assert.Equal(t, StateSuccessStructured, out.State)
	assert.Equal(t, StateSuccessStructured, sub.State())
	require.NotNil(t, out.Response)
	require.NotNil(t, out.View)
	assert.Equal(t, "Coccidiosis", *out.Response.Diagnosis)
	assert.Equal(t, types.SpeciesChicken, fs.got.Species)
	assert.Equal(t, "bloody droppings", fs.got.Symptoms)
	assert.Equal(t, out.ID, sub.ID())
}

func TestRun_Unstructured(t *testing.T) {
	fs := &fakeSender{body: "not json at all"}
	out := WithSender(fs).Submit(context.Background(), Input{Species: "duck", AgeWeeks: 0})
	require.NoError(t, out.Err)
	assert.Equal(t, StateSuccessUnstructured, out.State)
	assert.Equal(t, "not json at all", out.View.Code)
}

func TestRun_TransportFailureHasNoView(t *testing.T) {
	fs := &fakeSender{err: &webhook.TransportError{Status: 500}}
	out := WithSender(fs).Submit(context.Background(), Input{Species: "turkey", AgeWeeks: 4})
	assert.Equal(t, StateFailed, out.State)
	assert.True(t, webhook.IsTransportError(out.Err))
	assert.Nil(t, out.Response)
	assert.Nil(t, out.View)
}

func TestRun_ValidationRejectedBeforeSend(t *testing.T) {
	fs := &fakeSender{body: "{}"}
	s := WithSender(fs)
	for _, in := range []Input{
		{Species: "goose", AgeWeeks: 1},
		{Species: "chicken", AgeWeeks: -1},
		{Species: "", AgeWeeks: 1},
	} {
		out := s.Submit(context.Background(), in)
		assert.Equal(t, StateFailed, out.State)
		assert.True(t, IsValidationError(out.Err), "input %+v", in)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&fs.calls))
}

func TestRun_ConfigurationErrorSkipsNetwork(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	for _, endpoint := range []string{"", ts.URL + "/no-marker"} {
		s := NewSubmitter(webhook.Options{Endpoint: endpoint, PathMarker: "webhook"})
		require.Error(t, s.Ready())
		out := s.Submit(context.Background(), Input{Species: "quail", AgeWeeks: 2})
		assert.Equal(t, StateFailed, out.State)
		assert.True(t, webhook.IsConfigurationError(out.Err))
		assert.Nil(t, out.View)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRun_OnlyOnce(t *testing.T) {
	fs := &fakeSender{body: `{"diagnosis":"x"}`}
	sub := WithSender(fs).New()
	first := sub.Run(context.Background(), Input{Species: "duck"})
	require.NoError(t, first.Err)
	second := sub.Run(context.Background(), Input{Species: "duck"})
	assert.True(t, errors.Is(second.Err, ErrAlreadySubmitted))
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fs.calls))
}

func TestSubmitter_EndToEndOverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webhook/poultry-dx" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`Here is your result: {"diagnosis":"Newcastle disease"} — done`))
	}))
	defer ts.Close()

	s := NewSubmitter(webhook.Options{Endpoint: ts.URL + "/webhook/poultry-dx", PathMarker: "webhook", Timeout: 2 * time.Second})
	require.NoError(t, s.Ready())
	out := s.Submit(context.Background(), Input{Species: "chicken", AgeWeeks: 8, Symptoms: "twisted neck"})
	require.NoError(t, out.Err)
	assert.Equal(t, StateSuccessStructured, out.State)
	assert.Equal(t, "Newcastle disease", *out.Response.Diagnosis)
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateIdle:                "idle",
		StateSending:             "sending",
		StateSuccessStructured:   "success_structured",
		StateSuccessUnstructured: "success_unstructured",
		StateFailed:              "failed",
		State(99):                "unknown",
	}
	for st, want := range cases {
		assert.Equal(t, want, st.String())
	}
	assert.False(t, StateSending.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestValidate_NormalizesSpecies(t *testing.T) {
	fs := &fakeSender{body: `{"diagnosis":"x"}`}
	out := WithSender(fs).Submit(context.Background(), Input{Species: " CHICKEN ", AgeWeeks: 1})
	require.NoError(t, out.Err)
	assert.Equal(t, types.SpeciesChicken, fs.got.Species)

	assert.True(t, IsValidationError(Input{Species: "chick en"}.Validate()))
}
