package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// Placeholders substituted into the template
const (
	TranscriptPlaceholder    = "{transcript}"
	SalesRepNamesPlaceholder = "{sales_rep_names}"
	MerchantNamesPlaceholder = "{merchant_names}"
)

// DefaultMerchantNames is used when the caller does not label the merchant side
const DefaultMerchantNames = "Customer"

// Version of the embedded coaching prompt
const Version = "Funnel-Coach-Gem v1-2025-05-21 (Rev 7)-explore-100pt"

//go:embed templates/funnel_coach_explore.md
var funnelCoachExplore string

var ErrMissingPlaceholder = errors.New("template is missing a placeholder")

// Template is an immutable prompt template with the three call placeholders
type Template struct {
	text string
}

// NewTemplate validates that text carries every placeholder
func NewTemplate(text string) (*Template, error) {
	for _, p := range []string{TranscriptPlaceholder, SalesRepNamesPlaceholder, MerchantNamesPlaceholder} {
		if !strings.Contains(text, p) {
			return nil, fmt.Errorf("%w: %s", ErrMissingPlaceholder, p)
		}
	}
	return &Template{text: text}, nil
}

// Default returns the embedded Explore-stage coaching template
func Default() *Template {
	return &Template{text: funnelCoachExplore}
}

// Build renders the template. Values are substituted verbatim in a single pass,
// so placeholder-looking text inside a transcript is left alone.
func (t *Template) Build(transcript, salesRepNames, merchantNames string) string {
	r := strings.NewReplacer(
		TranscriptPlaceholder, transcript,
		SalesRepNamesPlaceholder, salesRepNames,
		MerchantNamesPlaceholder, merchantNames,
	)
	return r.Replace(t.text)
}

// Text returns the raw template
func (t *Template) Text() string {
	return t.text
}

// Build renders the default template
func Build(transcript, salesRepNames, merchantNames string) string {
	return Default().Build(transcript, salesRepNames, merchantNames)
}
