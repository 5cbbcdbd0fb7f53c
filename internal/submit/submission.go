package submit

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"poultrydx/internal/diagnosis"
	"poultrydx/internal/webhook"
	"poultrydx/pkg/types"
)

// ErrAlreadySubmitted is returned when Run is called on a used Submission.
var ErrAlreadySubmitted = errors.New("submission already sent; start a new one")

// Sender performs the single webhook call of a submission.
type Sender interface {
	Send(ctx context.Context, req types.DiagnosisRequest) (webhook.RawResult, error)
}

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used for submissions.
func SetLogger(l zerolog.Logger) { zlog = &l }

// Outcome is the terminal result of one submission. Response and View are nil
// when State is StateFailed.
type Outcome struct {
	ID       string
	State    State
	Response *types.DiagnosisResponse
	View     *types.View
	Err      error
}

// Submitter creates submissions against one webhook endpoint. The endpoint is
// fixed when the Submitter is built; a bad endpoint is remembered and reported
// by every submission without touching the network.
type Submitter struct {
	sender Sender
	cfgErr error
}

// NewSubmitter builds a webhook client from opts.
func NewSubmitter(opts webhook.Options) *Submitter {
	c, err := webhook.NewClient(opts)
	if err != nil {
		return &Submitter{cfgErr: err}
	}
	return &Submitter{sender: c}
}

// WithSender wraps an existing Sender.
func WithSender(s Sender) *Submitter {
	if s == nil {
		return &Submitter{cfgErr: &webhook.ConfigurationError{Reason: "no webhook client"}}
	}
	return &Submitter{sender: s}
}

// Ready returns the configuration error, if any.
func (s *Submitter) Ready() error { return s.cfgErr }

// New starts a fresh submission in StateIdle.
func (s *Submitter) New() *Submission {
	return &Submission{id: uuid.NewString(), sender: s.sender, cfgErr: s.cfgErr}
}

// Submit is New followed by Run.
func (s *Submitter) Submit(ctx context.Context, in Input) Outcome {
	return s.New().Run(ctx, in)
}

// Submission is one submit gesture: Idle -> Sending -> Success(*) | Failed.
type Submission struct {
	id     string
	sender Sender
	cfgErr error

	mu    sync.Mutex
	state State
}

// ID returns the submission id.
func (s *Submission) ID() string { return s.id }

// State returns the current state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run validates in, sends it and interprets the reply. It blocks for the
// duration of the webhook call and may be called only once.
func (s *Submission) Run(ctx context.Context, in Input) Outcome {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return Outcome{ID: s.id, State: st, Err: ErrAlreadySubmitted}
	}
	s.state = StateSending
	s.mu.Unlock()

	start := time.Now()
	if err := in.Validate(); err != nil {
		return s.finish(Outcome{ID: s.id, State: StateFailed, Err: err}, start)
	}
	if s.cfgErr != nil {
		return s.finish(Outcome{ID: s.id, State: StateFailed, Err: s.cfgErr}, start)
	}

	req := webhook.Build(in.species(), in.AgeWeeks, in.Symptoms)
	raw, err := s.sender.Send(ctx, req)
	if err != nil {
		return s.finish(Outcome{ID: s.id, State: StateFailed, Err: err}, start)
	}

	resp := diagnosis.Interpret(raw.Body)
	view := diagnosis.Render(resp)
	st := StateSuccessUnstructured
	if resp.Structured() {
		st = StateSuccessStructured
	}
	return s.finish(Outcome{ID: s.id, State: st, Response: &resp, View: &view}, start)
}

func (s *Submission) finish(o Outcome, start time.Time) Outcome {
	s.mu.Lock()
	s.state = o.State
	s.mu.Unlock()
	submissionsTotal.WithLabelValues(o.State.String()).Inc()

	dur := time.Since(start)
	if zlog != nil {
		ev := zlog.Info()
		if o.Err != nil {
			ev = zlog.Warn().Err(o.Err)
		}
		ev.Str("submission_id", o.ID).Str("state", o.State.String()).Dur("dur", dur).Msg("submission done")
		return o
	}
	if o.Err != nil {
		log.Printf("submission done id=%s state=%s dur=%s err=%v", o.ID, o.State, dur, o.Err)
	}
	return o
}
