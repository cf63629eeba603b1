package analyzer

import (
	"funnel-coach-api/gemini"
)

// Sentinels the prompt instructs the model to return verbatim
const (
	NeedSpeakerRoles = "NEED_SPEAKER_ROLES: Please specify which speaker(s) is/are the sales rep(s) and which is/are the merchant(s) so I can evaluate the call."
	DataNotRedacted  = "DATA_NOT_REDACTED"
	UnsupportedInput = "UNSUPPORTED_INPUT"
)

const (
	KindNeedSpeakerRoles = "need_speaker_roles"
	KindDataNotRedacted  = "data_not_redacted"
	KindUnsupportedInput = "unsupported_input"
)

var sentinelKinds = map[string]string{
	NeedSpeakerRoles: KindNeedSpeakerRoles,
	DataNotRedacted:  KindDataNotRedacted,
	UnsupportedInput: KindUnsupportedInput,
}

// Classify turns a completion into a response. Only exact matches count as
// sentinels; surrounding whitespace or extra text makes it a normal analysis.
func Classify(c *gemini.Completion) (*Response, error) {
	if c == nil {
		return nil, &EmptyResponseError{}
	}
	if kind, ok := sentinelKinds[c.Text]; ok {
		return &Response{AnalysisText: c.Text, IsError: true, ErrorKind: kind}, nil
	}
	if c.Text == "" {
		return nil, &EmptyResponseError{BlockReason: c.BlockReason, BlockReasonMessage: c.BlockReasonMessage}
	}
	return &Response{AnalysisText: c.Text}, nil
}
