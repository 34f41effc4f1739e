package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/wca-notifier/internal/fetch"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"golang.org/x/sync/errgroup"
)

const (
	searchQuery    = "?utf8=%E2%9C%93&search=&state=present&year=all+years&from_date=&to_date=&delegate=&display=list&region="
	eventParam     = "&event_ids%5B%5D="
	candidateLinks = `ul > li.list-group-item.not-past a:not([target="_blank"])`
)

// Collector finds candidate competition ids through the site search.
type Collector struct {
	getter  fetch.Getter
	baseURL string
}

func NewCollector(g fetch.Getter, baseURL string) *Collector {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Collector{getter: g, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SearchURLs returns the searches needed for f. ModeAll is a single search
// carrying every event code; ModeAny searches each code separately.
func SearchURLs(baseURL string, f *filter.EventFilter) []string {
	base := strings.TrimSuffix(baseURL, "/") + searchQuery + url.QueryEscape(f.Region())

	if f.Mode == filter.ModeAny {
		urls := make([]string, 0, len(f.Events))
		for _, code := range f.Events {
			urls = append(urls, base+eventParam+url.QueryEscape(code))
		}
		return urls
	}

	var b strings.Builder
	b.WriteString(base)
	for _, code := range f.Events {
		b.WriteString(eventParam)
		b.WriteString(url.QueryEscape(code))
	}
	return []string{b.String()}
}

// Collect runs every search in parallel and returns the union of the ids in
// first-seen order. Any failed search fails the collection.
func (c *Collector) Collect(ctx context.Context, f *filter.EventFilter) ([]string, error) {
	urls := SearchURLs(c.baseURL, f)
	found := make([][]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			doc, err := fetch.Document(gctx, c.getter, u)
			if err != nil {
				return err
			}
			doc.Find(candidateLinks).Each(func(_ int, a *goquery.Selection) {
				if href, ok := a.Attr("href"); ok {
					found[i] = append(found[i], idFromHref(href))
				}
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, list := range found {
		for _, id := range list {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// idFromHref returns the last path segment of a competition link.
func idFromHref(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return href[strings.LastIndex(href, "/")+1:]
}
