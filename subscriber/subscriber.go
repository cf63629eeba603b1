package subscriber

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"funnel-coach-api/analyzer"
	valkeystore "funnel-coach-api/valkey"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

const (
	AnalysisRequestedChannel = "analysis_requested"
	AnalysisCompletedChannel = "analysis_completed"
)

// AnalysisRequestedPayload is the message published by producers on analysis_requested
type AnalysisRequestedPayload struct {
	RequestID string `json:"request_id"`
	analyzer.Request
}

// AnalysisCompletedPayload carries the same information as the HTTP response,
// with Status set to the equivalent HTTP status code.
type AnalysisCompletedPayload struct {
	RequestID    string `json:"request_id"`
	Status       int    `json:"status"`
	AnalysisText string `json:"analysis_text,omitempty"`
	IsError      bool   `json:"is_error,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Error        string `json:"error,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, channel, message string) error
}

// ValkeyPublisher publishes through the shared valkey client
type ValkeyPublisher struct{}

func (ValkeyPublisher) Publish(ctx context.Context, channel, message string) error {
	return valkeystore.Client.Publish(ctx, channel, message).Err()
}

type Subscriber struct {
	logger    *zap.Logger
	analyzer  *analyzer.Analyzer
	publisher Publisher
}

func New(logger *zap.Logger, a *analyzer.Analyzer, pub Publisher) *Subscriber {
	return &Subscriber{logger: logger, analyzer: a, publisher: pub}
}

// Start listens on analysis_requested until ctx is cancelled. Each message is
// processed in its own goroutine; no message shares state with another.
func (s *Subscriber) Start(ctx context.Context) {
	sugar := s.logger.Sugar()
	sugar.Infow("Message subscriber started",
		"channel", AnalysisRequestedChannel)

	client := valkeystore.RawClient
	for {
		err := client.Receive(ctx, client.B().Subscribe().Channel(AnalysisRequestedChannel).Build(),
			func(msg valkey.PubSubMessage) {
				go s.Process(ctx, msg.Message)
			})
		if ctx.Err() != nil {
			sugar.Info("Message subscriber stopped")
			return
		}
		sugar.Errorw("Subscription interrupted",
			"channel", AnalysisRequestedChannel,
			"error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// Process runs one queued analysis and publishes its result
func (s *Subscriber) Process(ctx context.Context, message string) {
	sugar := s.logger.Sugar()

	if strings.TrimSpace(message) == "" {
		sugar.Warn("Received empty message from pub/sub")
		return
	}

	var payload AnalysisRequestedPayload
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		sugar.Errorw("Dropping malformed analysis message",
			"error", err,
			"message_bytes", len(message))
		return
	}
	if payload.RequestID == "" {
		payload.RequestID = uuid.NewString()
	}

	resp, err := s.analyzer.Handle(ctx, payload.RequestID, "queue", payload.Request)

	result := AnalysisCompletedPayload{RequestID: payload.RequestID, Status: http.StatusOK}
	if err != nil {
		result.Status, result.Error = analyzer.ErrorStatus(err)
	} else {
		result.AnalysisText = resp.AnalysisText
		result.IsError = resp.IsError
		result.ErrorKind = resp.ErrorKind
	}

	out, err := json.Marshal(result)
	if err != nil {
		sugar.Errorw("Result serialization failed",
			"request_id", payload.RequestID,
			"error", err)
		return
	}
	if err := s.publisher.Publish(ctx, AnalysisCompletedChannel, string(out)); err != nil {
		sugar.Errorw("Result publishing failed",
			"request_id", payload.RequestID,
			"error", err)
	}
}
