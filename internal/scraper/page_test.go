package scraper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "failed to load test fixture")
	return data
}

func TestParsePage_Calendar(t *testing.T) {
	p, err := ParsePage(RawEventPage{Kind: PageCalendar, Body: fixture(t, "competition.ics")})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 4, 12, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2030, 4, 14, 0, 0, 0, 0, time.UTC), p.End)
}

func TestParsePage_CalendarMissingDates(t *testing.T) {
	_, err := ParsePage(RawEventPage{Kind: PageCalendar, Body: []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n")})

	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, PageCalendar, ee.Page)
	assert.Equal(t, "dates", ee.Field)
}

func TestParsePage_Info(t *testing.T) {
	p, err := ParsePage(RawEventPage{Kind: PageInfo, Body: fixture(t, "info.html")})
	require.NoError(t, err)

	assert.Equal(t, "Warsaw Open 2030", p.Name)
	assert.Equal(t, "Warsaw, Poland", p.City)
	assert.Equal(t, "Palace of Culture", p.Venue)
	require.NotNil(t, p.Location)
	assert.InDelta(t, 52.231958, p.Location.Lat(), 1e-9)
	assert.InDelta(t, 21.006725, p.Location.Lon(), 1e-9)
}

func TestParsePage_InfoWithoutAddress(t *testing.T) {
	body := []byte(`<div id="competition-data"><h3>Small Comp</h3><dl><dt>City</dt><dd>Oslo</dd></dl></div>`)
	p, err := ParsePage(RawEventPage{Kind: PageInfo, Body: body})
	require.NoError(t, err)

	assert.Equal(t, "Small Comp", p.Name)
	assert.Equal(t, "Oslo", p.City)
	assert.Empty(t, p.Venue)
	assert.Nil(t, p.Location)
}

func TestParsePage_Register(t *testing.T) {
	p, err := ParsePage(RawEventPage{Kind: PageRegister, Body: fixture(t, "register.html")})
	require.NoError(t, err)

	require.NotNil(t, p.MaxCompetitors)
	assert.Equal(t, 120, *p.MaxCompetitors)
	require.NotNil(t, p.RegistrationFee)
	assert.Equal(t, 25.5, *p.RegistrationFee)
	assert.Equal(t, "Euro", p.FeeCurrencyName)
}

func TestParsePage_RegisterVariants(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    *int
		fee      *float64
		currency string
	}{
		{
			name:     "period decimal",
			text:     "The registration fee is 25.00 (Euro).",
			fee:      ptr(25.0),
			currency: "Euro",
		},
		{
			name:     "integer fee",
			text:     "Base registration fee: 40 (Polish złoty)",
			fee:      ptr(40.0),
			currency: "Polish złoty",
		},
		{
			name:  "limit only",
			text:  "There is a competitor limit of 80 people. Registration is free.",
			limit: ptr(80),
		},
		{
			name: "nothing",
			text: "Registration opens soon.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`<div id="competition-data"><p>` + tt.text + `</p></div>`)
			p, err := ParsePage(RawEventPage{Kind: PageRegister, Body: body})
			require.NoError(t, err)
			assert.Equal(t, tt.limit, p.MaxCompetitors)
			assert.Equal(t, tt.fee, p.RegistrationFee)
			assert.Equal(t, tt.currency, p.FeeCurrencyName)
		})
	}
}

func TestParsePage_Registrations(t *testing.T) {
	p, err := ParsePage(RawEventPage{Kind: PageRegistrations, Body: fixture(t, "registrations.html")})
	require.NoError(t, err)
	require.NotNil(t, p.CurrentCompetitors)
	assert.Equal(t, 87, *p.CurrentCompetitors)

	p, err = ParsePage(RawEventPage{Kind: PageRegistrations, Body: []byte(`<table><tbody></tbody></table>`)})
	require.NoError(t, err)
	assert.Nil(t, p.CurrentCompetitors)
}

func TestPageKind_Path(t *testing.T) {
	assert.Equal(t, "Comp2030.ics", PageCalendar.Path("Comp2030"))
	assert.Equal(t, "Comp2030", PageInfo.Path("Comp2030"))
	assert.Equal(t, "Comp2030/register", PageRegister.Path("Comp2030"))
	assert.Equal(t, "Comp2030/registrations", PageRegistrations.Path("Comp2030"))
	assert.Equal(t, "registrations", PageRegistrations.String())
}

func ptr[T any](v T) *T { return &v }
