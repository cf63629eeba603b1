package analyzer

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"funnel-coach-api/gemini"
)

func TestClassifySentinels(t *testing.T) {
	tests := []struct {
		text string
		kind string
	}{
		{NeedSpeakerRoles, KindNeedSpeakerRoles},
		{DataNotRedacted, KindDataNotRedacted},
		{UnsupportedInput, KindUnsupportedInput},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resp, err := Classify(&gemini.Completion{Text: tt.text})
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if !resp.IsError || resp.AnalysisText != tt.text || resp.ErrorKind != tt.kind {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestClassifyRequiresExactMatch(t *testing.T) {
	for _, text := range []string{"DATA_NOT_REDACTED\n", " UNSUPPORTED_INPUT", "NEED_SPEAKER_ROLES", "Final Score: 50/100\nDATA_NOT_REDACTED"} {
		resp, err := Classify(&gemini.Completion{Text: text})
		if err != nil {
			t.Fatalf("classify %q: %v", text, err)
		}
		if resp.IsError || resp.ErrorKind != "" {
			t.Fatalf("%q treated as sentinel", text)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	_, err := Classify(&gemini.Completion{})
	var empty *EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
	status, msg := ErrorStatus(err)
	if status != http.StatusInternalServerError || msg != "AI service returned no content." {
		t.Fatalf("got %d %q", status, msg)
	}

	_, err = Classify(&gemini.Completion{BlockReason: "SAFETY", BlockReasonMessage: "blocked for safety"})
	_, msg = ErrorStatus(err)
	if !strings.Contains(msg, "no content") || !strings.HasSuffix(msg, "(Reason: blocked for safety)") {
		t.Fatalf("msg = %q", msg)
	}

	if _, err := Classify(nil); !errors.As(err, &empty) {
		t.Fatalf("nil completion: %v", err)
	}
}
