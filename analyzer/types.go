package analyzer

import (
	"funnel-coach-api/prompt"
)

// Request is the body of POST /analyze and of queued analysis messages
type Request struct {
	Transcript    string  `json:"transcript"`
	SalesRepNames string  `json:"sales_rep_names"`
	MerchantNames *string `json:"merchant_names,omitempty"`
}

// Merchant returns the merchant label, defaulting when the field was omitted or null
func (r Request) Merchant() string {
	if r.MerchantNames == nil {
		return prompt.DefaultMerchantNames
	}
	return *r.MerchantNames
}

// Response is relayed to the caller with status 200. IsError marks a
// model-signalled sentinel rather than a transport failure.
type Response struct {
	AnalysisText string `json:"analysis_text"`
	IsError      bool   `json:"is_error,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
}
