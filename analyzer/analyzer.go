package analyzer

import (
	"context"
	"net/http"
	"time"

	"funnel-coach-api/gemini"
	"funnel-coach-api/prompt"
	"funnel-coach-api/utils"

	"go.uber.org/zap"
)

// Generator produces one completion per prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (*gemini.Completion, error)
}

// Recorder stores outcome metadata for an analysis
type Recorder interface {
	RecordOutcome(ctx context.Context, o utils.Outcome) error
}

// Analyzer runs validate -> build -> relay -> classify for one request.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	logger    *zap.Logger
	template  *prompt.Template
	generator Generator
	model     string
	recorder  Recorder
}

type Option func(*Analyzer)

// WithRecorder enables the outcome audit
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithModel sets the model name written to audit rows
func WithModel(model string) Option {
	return func(a *Analyzer) { a.model = model }
}

// New returns an analyzer. A nil generator means no credential was configured
// and every valid request fails with ErrServiceUnavailable.
func New(logger *zap.Logger, tpl *prompt.Template, gen Generator, opts ...Option) *Analyzer {
	if tpl == nil {
		tpl = prompt.Default()
	}
	a := &Analyzer{logger: logger, template: tpl, generator: gen}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configured reports whether an upstream generator is available
func (a *Analyzer) Configured() bool {
	return a.generator != nil
}

// Validate checks the required fields
func Validate(req Request) error {
	if req.Transcript == "" {
		return &FieldError{Field: "transcript", Message: "No transcript provided."}
	}
	if req.SalesRepNames == "" {
		return &FieldError{Field: "sales_rep_names", Message: "Sales Rep name(s) not provided."}
	}
	return nil
}

// Analyze runs the pipeline without side effects beyond the upstream call
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Response, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	doc := a.template.Build(req.Transcript, req.SalesRepNames, req.Merchant())

	if a.generator == nil {
		return nil, ErrServiceUnavailable
	}

	completion, err := a.generator.Generate(ctx, doc)
	if err != nil {
		return nil, err
	}
	return Classify(completion)
}

// Handle wraps Analyze with counters, logging and the optional outcome audit
func (a *Analyzer) Handle(ctx context.Context, requestID, source string, req Request) (*Response, error) {
	sugar := a.logger.Sugar()
	start := time.Now()
	utils.AnalyzeRequestsTotal.Add(1)

	resp, err := a.Analyze(ctx, req)
	latency := time.Since(start)

	outcome := outcomeOf(resp, err)
	status := http.StatusOK
	if err != nil {
		status, _ = ErrorStatus(err)
	}

	switch outcome {
	case OutcomeSuccess:
		utils.AnalyzeSuccessTotal.Add(1)
		sugar.Infow("Analysis completed",
			"request_id", requestID,
			"source", source,
			"transcript_bytes", len(req.Transcript),
			"analysis_bytes", len(resp.AnalysisText),
			"latency", latency)
	case OutcomeSentinel:
		utils.AnalyzeSentinelTotal.Add(1)
		sugar.Warnw("Model returned a sentinel",
			"request_id", requestID,
			"source", source,
			"kind", resp.ErrorKind)
	case OutcomeInvalidRequest:
		utils.AnalyzeRejectedTotal.Add(1)
		sugar.Infow("Analysis request rejected",
			"request_id", requestID,
			"source", source,
			"error", err)
	default:
		utils.AnalyzeFailuresTotal.Add(1)
		sugar.Errorw("Analysis failed",
			"request_id", requestID,
			"source", source,
			"outcome", outcome,
			"error", err,
			"latency", latency)
	}

	if a.recorder != nil {
		row := utils.Outcome{
			RequestID:       requestID,
			Source:          source,
			Outcome:         outcome,
			Status:          status,
			LatencyMS:       latency.Milliseconds(),
			Model:           a.model,
			TranscriptBytes: len(req.Transcript),
		}
		if resp != nil {
			row.ErrorKind = resp.ErrorKind
		}
		if rerr := a.recorder.RecordOutcome(ctx, row); rerr != nil {
			utils.OutcomeRecordFailures.Add(1)
			sugar.Errorw("Outcome recording failed",
				"request_id", requestID,
				"error", rerr)
		}
	}

	return resp, err
}
