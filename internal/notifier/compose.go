package notifier

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// DefaultSiteName signs the digest when no name is configured.
const DefaultSiteName = "WCA Notifier"

// Message is a composed digest.
type Message struct {
	To       string
	Subject  string
	Markdown string
	HTML     string
}

// Composer renders digests.
type Composer struct {
	BaseURL  string
	SiteName string
}

var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var digest = template.Must(template.New("digest").Parse(`# {{.Summary}}
{{range .Events}}
## [{{.Name}}]({{.URL}})

- **Date:** {{.Date}}
- **Location:** {{.Location}}
- **Registration fee:** {{.Fee}}
- **Competitors:** {{.Competitors}}
{{end}}
---

You are receiving this because {{.Email}} subscribed to {{.Site}}.
To unsubscribe, reply to this email with the subject "unsubscribe".
`))

type digestData struct {
	Summary string
	Email   string
	Site    string
	Events  []eventView
}

type eventView struct {
	Name        string
	URL         string
	Date        string
	Location    string
	Fee         string
	Competitors string
}

// Subject returns the subject line for n events.
func Subject(n int) string {
	if n == 1 {
		return "New WCA Competition!"
	}
	return "New WCA Competitions!"
}

// Summary returns the digest headline for n events.
func Summary(n int) string {
	if n == 1 {
		return "1 new event found!"
	}
	return fmt.Sprintf("%d new events found!", n)
}

// Compose renders the digest for sub.
func (c Composer) Compose(sub *subscription.Subscription, events []*event.Event) (*Message, error) {
	site := c.SiteName
	if site == "" {
		site = DefaultSiteName
	}

	data := digestData{
		Summary: Summary(len(events)),
		Email:   sub.Email,
		Site:    site,
	}
	for _, evt := range events {
		data.Events = append(data.Events, c.view(evt, sub.PreferredCurrency))
	}

	var src bytes.Buffer
	if err := digest.Execute(&src, data); err != nil {
		return nil, errors.Wrap(err, "rendering digest")
	}
	var html bytes.Buffer
	if err := md.Convert(src.Bytes(), &html); err != nil {
		return nil, errors.Wrap(err, "converting digest to HTML")
	}

	return &Message{
		To:       sub.Email,
		Subject:  Subject(len(events)),
		Markdown: src.String(),
		HTML:     html.String(),
	}, nil
}

func (c Composer) view(evt *event.Event, preferred string) eventView {
	return eventView{
		Name:        escapeMarkdown(evt.Name),
		URL:         evt.URL(c.BaseURL),
		Date:        formatDates(evt),
		Location:    formatLocation(evt),
		Fee:         formatFee(evt, preferred),
		Competitors: formatCompetitors(evt),
	}
}

func formatDates(evt *event.Event) string {
	const layout = "Mon, 2 Jan 2006"
	if evt.End.IsZero() || evt.End.Equal(evt.Start) {
		return evt.Start.Format(layout)
	}
	return evt.Start.Format(layout) + " to " + evt.End.Format(layout)
}

func formatLocation(evt *event.Event) string {
	parts := make([]string, 0, 2)
	if evt.Venue != "" {
		parts = append(parts, escapeMarkdown(evt.Venue))
	}
	if evt.City != "" {
		parts = append(parts, escapeMarkdown(evt.City))
	}
	loc := strings.Join(parts, ", ")
	if loc == "" {
		loc = "unknown"
	}
	if p := evt.Location; p != nil {
		loc += fmt.Sprintf(" ([map](https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=16/%.6f/%.6f))",
			p.Lat(), p.Lon(), p.Lat(), p.Lon())
	}
	return loc
}

func formatFee(evt *event.Event, preferred string) string {
	if evt.RegistrationFee == nil {
		return "unknown"
	}
	fee := fmt.Sprintf("%.2f %s", *evt.RegistrationFee, evt.FeeCurrency)
	if evt.ConvertedFee != nil && evt.FeeCurrency != preferred {
		fee += fmt.Sprintf(" (about %.2f %s)", *evt.ConvertedFee, preferred)
	}
	return fee
}

func formatCompetitors(evt *event.Event) string {
	current, max := "?", "?"
	if evt.CurrentCompetitors != nil {
		current = fmt.Sprint(*evt.CurrentCompetitors)
	}
	if evt.MaxCompetitors != nil {
		max = fmt.Sprint(*evt.MaxCompetitors)
	}
	return current + " / " + max
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`", `<`, `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
