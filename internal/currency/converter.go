package currency

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/wca-notifier/internal/fetch"
	"github.com/pkg/errors"
)

// DefaultQuoteURL is the quote page root; pairs are appended as "/SRC-DST".
const DefaultQuoteURL = "https://www.google.com/finance/quote"

// ConversionError means no usable rate exists for the pair.
type ConversionError struct {
	Source string
	Target string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s to %s: %s", e.Source, e.Target, e.Reason)
}

// Converter looks up exchange rates on the quote page. It does not cache.
type Converter struct {
	getter   fetch.Getter
	quoteURL string
}

// NewConverter creates a Converter. An empty quoteURL uses DefaultQuoteURL.
func NewConverter(g fetch.Getter, quoteURL string) *Converter {
	if quoteURL == "" {
		quoteURL = DefaultQuoteURL
	}
	return &Converter{getter: g, quoteURL: strings.TrimSuffix(quoteURL, "/")}
}

// Rate returns how many target units one source unit buys.
//
// Identical codes return exactly 1 without a request. An unknown source code,
// a missing quote attribute or a non-numeric quote is a *ConversionError;
// a failed request is a *fetch.NetworkError.
func (c *Converter) Rate(ctx context.Context, source, target string) (float64, error) {
	if source == target {
		return 1, nil
	}
	if source == UnknownCode || source == "" {
		return 0, &ConversionError{Source: source, Target: target, Reason: "unknown source currency"}
	}
	if target == UnknownCode || target == "" {
		return 0, &ConversionError{Source: source, Target: target, Reason: "unknown target currency"}
	}

	doc, err := fetch.Document(ctx, c.getter, c.quoteURL+"/"+source+"-"+target)
	if err != nil {
		return 0, err
	}
	return parseQuote(doc, source, target)
}

func parseQuote(doc *goquery.Document, source, target string) (float64, error) {
	sel := fmt.Sprintf(`div[data-source=%q][data-target=%q]`, source, target)
	raw, ok := doc.Find(sel).First().Attr("data-last-price")
	if !ok {
		return 0, &ConversionError{Source: source, Target: target, Reason: "quote not found"}
	}
	rate, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""), 64)
	if err != nil {
		return 0, &ConversionError{Source: source, Target: target, Reason: errors.Wrapf(err, "quote %q", raw).Error()}
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, &ConversionError{Source: source, Target: target, Reason: fmt.Sprintf("quote %q is not a number", raw)}
	}
	return rate, nil
}
