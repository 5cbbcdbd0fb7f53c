package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"poultrydx/internal/diagnosis"
	"poultrydx/pkg/types"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIStderr(t, args...)
	return out, err
}

func runCLIStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("POULTRYDX_WEBHOOK_URL", "")
	t.Setenv("POULTRYDX_CONFIG", "")
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

type recorded struct {
	mu   sync.Mutex
	reqs []map[string]any
}

func (r *recorded) all() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.reqs...)
}

func fakeWebhook(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, m)
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}

func TestDiagnoseCommand_Structured(t *testing.T) {
	ts, got := fakeWebhook(t, http.StatusOK, `{"diagnosis":"Coccidiosis","confidence":"high","risk_level":"medium","remedy":{"immediate_steps":["Isolate bird"],"treatment_plan":["Administer anticoccidial"]},"red_flags":[],"references":["Merck Vet Manual"]}`)
	out, err := runCLI(t, "diagnose", "--webhook-url", ts.URL+"/webhook/poultry-dx", "--species", "turkey", "--age-weeks", "12", "--symptoms", "  bloody droppings ")
	if err != nil {
		t.Fatalf("diagnose: %v\n%s", err, out)
	}
	reqs := got.all()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one webhook call, got %d", len(reqs))
	}
	req := reqs[0]
	if req["species"] != "turkey" || req["age_weeks"] != float64(12) || req["symptoms"] != "bloody droppings" {
		t.Fatalf("unexpected payload: %v", req)
	}
	for _, s := range []string{"Diagnosis received", "Coccidiosis", "- Isolate bird", "- Administer anticoccidial", "- Merck Vet Manual"} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "Red Flags") {
		t.Fatalf("empty red flags rendered:\n%s", out)
	}
}

func TestDiagnoseCommand_JSON(t *testing.T) {
	ts, _ := fakeWebhook(t, http.StatusOK, "not json at all")
	out, err := runCLI(t, "diagnose", "--json", "--webhook-url", ts.URL+"/webhook/x")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	var resp types.DiagnoseResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if resp.State != "success_unstructured" || resp.View.Code != "not json at all" {
		t.Fatalf("unexpected: %+v", resp)
	}
}

func TestDiagnoseCommand_TransportError(t *testing.T) {
	ts, _ := fakeWebhook(t, http.StatusInternalServerError, "boom")
	out, err := runCLI(t, "diagnose", "--webhook-url", ts.URL+"/webhook/x")
	if err == nil {
		t.Fatalf("expected error on HTTP 500")
	}
	if !strings.Contains(out, "Request failed") || strings.Contains(out, "Diagnosis received") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDiagnoseCommand_MissingEndpoint(t *testing.T) {
	out, err := runCLI(t, "diagnose")
	if err == nil || !strings.Contains(err.Error(), "webhook endpoint not configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(out, "ERROR") {
		t.Fatalf("expected error output, got %q", out)
	}
}

func TestDiagnoseCommand_ConfigFile(t *testing.T) {
	ts, got := fakeWebhook(t, http.StatusOK, `{"diagnosis":"Fowl cholera"}`)
	p := filepath.Join(t.TempDir(), "poultrydx.yaml")
	if err := os.WriteFile(p, []byte("webhook_url: "+ts.URL+"/webhook/dx\ntimeout_seconds: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCLI(t, "diagnose", "--config", p, "--species", "quail")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if len(got.all()) != 1 || !strings.Contains(out, "Fowl cholera") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDiagnoseCommand_InvalidSpecies(t *testing.T) {
	ts, got := fakeWebhook(t, http.StatusOK, `{}`)
	_, err := runCLI(t, "diagnose", "--webhook-url", ts.URL+"/webhook/x", "--species", "goose")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(got.all()) != 0 {
		t.Fatalf("webhook must not be called for invalid input")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil || strings.TrimSpace(out) != version {
		t.Fatalf("version: %q %v", out, err)
	}
}

func TestRequestLogDefault(t *testing.T) {
	cases := map[string]string{"debug": "debug", "warn": "info", "error": "error", "disabled": "off", "": "info"}
	for in, want := range cases {
		if got := requestLogDefault(in); got != want {
			t.Fatalf("requestLogDefault(%q)=%q want %q", in, got, want)
		}
	}
}

func TestDiagnoseCommand_ShowsProgress(t *testing.T) {
	ts, _ := fakeWebhook(t, http.StatusOK, `{"diagnosis":"Coccidiosis"}`)
	out, errOut, err := runCLIStderr(t, "diagnose", "--webhook-url", ts.URL+"/webhook/x")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !strings.Contains(errOut, diagnosis.ProgressText) {
		t.Fatalf("expected progress line on stderr, got %q", errOut)
	}
	if strings.Contains(out, diagnosis.ProgressText) {
		t.Fatalf("progress line must not mix into the result:\n%s", out)
	}

	_, errOut, err = runCLIStderr(t, "diagnose", "--json", "--webhook-url", ts.URL+"/webhook/x")
	if err != nil {
		t.Fatalf("diagnose --json: %v", err)
	}
	if strings.Contains(errOut, diagnosis.ProgressText) {
		t.Fatalf("--json must stay quiet, got %q", errOut)
	}
}

func TestDiagnoseCommand_SubSecondTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
		_, _ = w.Write([]byte(`{"diagnosis":"late"}`))
	}))
	t.Cleanup(ts.Close)

	start := time.Now()
	_, err := runCLI(t, "diagnose", "--timeout", "400ms", "--webhook-url", ts.URL+"/webhook/x")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("400ms timeout took %s", elapsed)
	}
}

func TestDiagnoseCommand_RejectsBadConfig(t *testing.T) {
	ts, got := fakeWebhook(t, http.StatusOK, `{}`)
	for _, args := range [][]string{
		{"diagnose", "--timeout", "0s", "--webhook-url", ts.URL + "/webhook/x"},
		{"diagnose", "--webhook-url", ts.URL + "/api/x"},
	} {
		if _, err := runCLI(t, args...); err == nil {
			t.Fatalf("%v: expected config error, got %v", args, err)
		}
	}
	if len(got.all()) != 0 {
		t.Fatalf("webhook must not be called on a rejected config")
	}
}
