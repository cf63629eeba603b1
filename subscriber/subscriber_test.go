package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"funnel-coach-api/analyzer"
	"funnel-coach-api/gemini"

	"go.uber.org/zap"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(ctx context.Context, p string) (*gemini.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gemini.Completion{Text: f.text}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	messages []string
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, channel, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channel)
	f.messages = append(f.messages, message)
	return f.err
}

func (f *fakePublisher) result(t *testing.T) AnalysisCompletedPayload {
	t.Helper()
	if len(f.messages) != 1 {
		t.Fatalf("published %d messages", len(f.messages))
	}
	if f.channels[0] != AnalysisCompletedChannel {
		t.Fatalf("channel = %q", f.channels[0])
	}
	var out AnalysisCompletedPayload
	if err := json.Unmarshal([]byte(f.messages[0]), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func newSubscriber(gen analyzer.Generator, pub Publisher) *Subscriber {
	return New(zap.NewNop(), analyzer.New(zap.NewNop(), nil, gen), pub)
}

func TestProcessPublishesAnalysis(t *testing.T) {
	pub := &fakePublisher{}
	s := newSubscriber(fakeGenerator{text: "Final Score: 88/100  (Strong)"}, pub)

	s.Process(context.Background(), `{"request_id":"job-1","transcript":"Rep: hi","sales_rep_names":"Rep"}`)

	out := pub.result(t)
	if out.RequestID != "job-1" || out.Status != http.StatusOK || out.AnalysisText != "Final Score: 88/100  (Strong)" || out.IsError {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestProcessPublishesSentinel(t *testing.T) {
	pub := &fakePublisher{}
	s := newSubscriber(fakeGenerator{text: analyzer.UnsupportedInput}, pub)

	s.Process(context.Background(), `{"request_id":"job-2","transcript":"asdf","sales_rep_names":"Rep","merchant_names":"Shop"}`)

	out := pub.result(t)
	if !out.IsError || out.ErrorKind != analyzer.KindUnsupportedInput || out.Status != http.StatusOK {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestProcessPublishesFailure(t *testing.T) {
	pub := &fakePublisher{}
	s := newSubscriber(fakeGenerator{err: errors.New("boom")}, pub)

	s.Process(context.Background(), `{"transcript":"Rep: hi","sales_rep_names":"Rep"}`)

	out := pub.result(t)
	if out.RequestID == "" {
		t.Fatal("request id not generated")
	}
	if out.Status != http.StatusInternalServerError || !strings.Contains(out.Error, "boom") {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestProcessValidation(t *testing.T) {
	pub := &fakePublisher{}
	s := newSubscriber(fakeGenerator{text: "unused"}, pub)

	s.Process(context.Background(), `{"request_id":"job-3","sales_rep_names":"Rep"}`)

	out := pub.result(t)
	if out.Status != http.StatusBadRequest || out.Error != "No transcript provided." {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestProcessDropsBadMessages(t *testing.T) {
	pub := &fakePublisher{}
	s := newSubscriber(fakeGenerator{text: "unused"}, pub)

	s.Process(context.Background(), "   ")
	s.Process(context.Background(), "not json")

	if len(pub.messages) != 0 {
		t.Fatalf("published %d messages for bad input", len(pub.messages))
	}
}
