package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/pfrederiksen/wca-notifier/internal/currency"
	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/fetch"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the competitions root on the WCA site.
const DefaultBaseURL = "https://www.worldcubeassociation.org/competitions"

// Rater returns exchange rates.
type Rater interface {
	Rate(ctx context.Context, source, target string) (float64, error)
}

// Extractor builds events from the competition pages.
type Extractor struct {
	getter  fetch.Getter
	rater   Rater
	table   *currency.Table
	baseURL string
}

// NewExtractor creates an Extractor. A nil table uses currency.DefaultTable.
func NewExtractor(g fetch.Getter, r Rater, table *currency.Table, baseURL string) *Extractor {
	if table == nil {
		table = currency.DefaultTable()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Extractor{getter: g, rater: r, table: table, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// PageURL returns the location of one page of competition id.
func (x *Extractor) PageURL(id string, kind PageKind) string {
	return x.baseURL + "/" + kind.Path(url.PathEscape(id))
}

// Extract fetches the four pages of competition id concurrently and merges
// them. The fee conversion waits for the register page.
//
// A failed fetch or missing calendar dates fail the call. A fee whose
// currency cannot be converted leaves ConvertedFee nil.
func (x *Extractor) Extract(ctx context.Context, id, preferredCurrency string) (*event.Event, error) {
	var parts [len(pageNames)]PartialEvent
	var converted *float64
	var feeCurrency string

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range []PageKind{PageCalendar, PageInfo, PageRegister, PageRegistrations} {
		g.Go(func() error {
			body, err := x.getter.Get(gctx, x.PageURL(id, kind))
			if err != nil {
				return err
			}
			p, err := ParsePage(RawEventPage{Kind: kind, Body: body})
			if err != nil {
				var ee *ExtractionError
				if errors.As(err, &ee) {
					ee.ID = id
				}
				return err
			}
			parts[kind] = p

			if kind != PageRegister || p.RegistrationFee == nil {
				return nil
			}
			feeCurrency = x.table.Code(p.FeeCurrencyName)
			converted, err = x.convert(gctx, *p.RegistrationFee, feeCurrency, preferredCurrency)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cal, info, reg, regs := parts[PageCalendar], parts[PageInfo], parts[PageRegister], parts[PageRegistrations]
	return &event.Event{
		ID:                 id,
		Name:               info.Name,
		Start:              cal.Start,
		End:                cal.End,
		City:               info.City,
		Venue:              info.Venue,
		Location:           info.Location,
		MaxCompetitors:     reg.MaxCompetitors,
		RegistrationFee:    reg.RegistrationFee,
		FeeCurrency:        feeCurrency,
		ConvertedFee:       converted,
		CurrentCompetitors: regs.CurrentCompetitors,
	}, nil
}

func (x *Extractor) convert(ctx context.Context, fee float64, source, target string) (*float64, error) {
	rate, err := x.rater.Rate(ctx, source, strings.ToUpper(target))
	if err != nil {
		var ce *currency.ConversionError
		if errors.As(err, &ce) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "converting %s to %s", source, target)
	}
	v := fee * rate
	return &v, nil
}
