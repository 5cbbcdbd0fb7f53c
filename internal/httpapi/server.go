package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"poultrydx/internal/submit"
	"poultrydx/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Submit(ctx context.Context, in submit.Input) submit.Outcome
	// Ready returns the configuration error that blocks submissions, if any.
	Ready() error
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		origins := corsAllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Log-Level"},
			MaxAge:         300,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data := newPageData()
		if err := svc.Ready(); err != nil {
			data.Error = userMessage(err)
		}
		writePage(w, http.StatusOK, data)
	})
	r.Post("/diagnose", diagnoseForm(svc))
	r.Post("/api/diagnose", diagnoseJSON(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() == nil {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("webhook not configured"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// diagnoseForm handles the HTML form post.
func diagnoseForm(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		data := newPageData()
		if err := r.ParseForm(); err != nil {
			data.Error = "invalid form submission"
			writePage(w, http.StatusBadRequest, data)
			return
		}
		in := submit.Input{
			Species:  r.PostFormValue("species"),
			Symptoms: r.PostFormValue("symptoms"),
		}
		data.Selected = types.Species(in.Species)
		data.Symptoms = in.Symptoms

		age, err := parseAge(r.PostFormValue("age_weeks"))
		if err != nil {
			data.Error = err.Error()
			writePage(w, http.StatusBadRequest, data)
			logSubmission(r, "", submit.StateFailed.String(), http.StatusBadRequest, start, err)
			return
		}
		in.AgeWeeks = age
		data.AgeWeeks = age

		out := svc.Submit(serverBaseCtx, in)
		if out.Err != nil {
			status := statusFor(out.Err)
			data.Error = userMessage(out.Err)
			writePage(w, status, data)
			logSubmission(r, out.ID, out.State.String(), status, start, out.Err)
			return
		}
		frag, err := resultHTML(out)
		if err != nil {
			data.Error = "failed to render result"
			writePage(w, http.StatusInternalServerError, data)
			logSubmission(r, out.ID, out.State.String(), http.StatusInternalServerError, start, err)
			return
		}
		data.Result = frag
		writePage(w, http.StatusOK, data)
		logSubmission(r, out.ID, out.State.String(), http.StatusOK, start, nil)
	}
}

// diagnoseJSON godoc
// @Summary      Submit symptoms for diagnosis
// @Description  Forwards the payload to the configured webhook once and returns the interpreted reply and its rendered view.
// @Tags         diagnose
// @Accept       json
// @Produce      json
// @Param        request  body      submit.Input  true  "Species, age in weeks and symptoms"
// @Success      200      {object}  types.DiagnoseResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /api/diagnose [post]
func diagnoseJSON(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var in submit.Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		out := svc.Submit(serverBaseCtx, in)
		if out.Err != nil {
			status := statusFor(out.Err)
			writeJSONError(w, status, out.Err.Error())
			logSubmission(r, out.ID, out.State.String(), status, start, out.Err)
			return
		}
		resp := types.DiagnoseResponse{ID: out.ID, State: out.State.String()}
		if out.Response != nil {
			resp.Response = *out.Response
		}
		if out.View != nil {
			resp.View = *out.View
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		logSubmission(r, out.ID, out.State.String(), http.StatusOK, start, nil)
	}
}

func parseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultAgeWeeks, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &submit.ValidationError{Field: "age_weeks", Reason: "must be a whole number of weeks"}
	}
	if n < 0 {
		return 0, &submit.ValidationError{Field: "age_weeks", Reason: "must be >= 0"}
	}
	return n, nil
}
