// Package extract turns bank SMS and email receipt text into transaction
// drafts using regular-expression heuristics.
package extract

import (
	"regexp"
	"strings"
	"time"

	"fintrack/internal/classify"
	"fintrack/internal/core"
)

const (
	DefaultSMSMerchant   = "Bank Transaction"
	DefaultEmailMerchant = "Email Receipt"
)

var (
	amountRegex        = regexp.MustCompile(`(?i)(?:\b(?:rs\.?|inr|rupees|usd)|₹|\$)\s*(\d[\d,]*(?:\.\d+)?)`)
	smsMerchantRegex   = regexp.MustCompile(`(?i)\b(?:at|on|for)\s+([a-z0-9&][a-z0-9 &]{2,29})`)
	emailMerchantRegex = regexp.MustCompile(`(?i)\b(?:from|via|at)\s+([a-z0-9&][a-z0-9 &]{2,29})`)
	accountRegex       = regexp.MustCompile(`(?i)(?:x{4}|\*{2,4})-?(\d{4})\b`)
)

var (
	smsCreditWords   = []string{"credited", "credit"}
	emailCreditWords = []string{"credited", "credit", "refunded", "returned"}
)

// Extractor is stateless apart from its classifier and clock and is safe for
// concurrent use.
type Extractor struct {
	classifier *classify.Classifier
	now        func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the time source used to stamp drafts.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func New(classifier *classify.Classifier, opts ...Option) *Extractor {
	if classifier == nil {
		classifier = classify.Default()
	}
	e := &Extractor{classifier: classifier, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawText of the given kind. It returns nil when no amount can
// be found or the kind is unknown; callers treat nil as "could not parse".
func (e *Extractor) Extract(rawText string, kind core.Kind) *core.TransactionDraft {
	if strings.TrimSpace(rawText) == "" || !kind.Valid() {
		return nil
	}

	amount, ok := parseAmount(rawText)
	if !ok {
		return nil
	}

	lower := strings.ToLower(rawText)
	draft := &core.TransactionDraft{
		Amount:      amount,
		Description: strings.TrimSpace(rawText),
		RawText:     rawText,
		Date:        core.DateOf(e.now()),
	}

	switch kind {
	case core.KindSMS:
		draft.Merchant = parseMerchant(rawText, smsMerchantRegex, DefaultSMSMerchant)
		draft.Direction = parseDirection(lower, smsCreditWords)
		draft.LastFourDigits = parseAccountSuffix(rawText)
	case core.KindEmail:
		draft.Merchant = parseMerchant(rawText, emailMerchantRegex, DefaultEmailMerchant)
		draft.Direction = parseDirection(lower, emailCreditWords)
	}

	res := e.classifier.Classify(draft.Merchant)
	draft.Category = res.Category
	draft.Subcategory = res.Subcategory
	draft.Confidence = res.Confidence

	return draft
}
