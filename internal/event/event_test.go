package event

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_URL(t *testing.T) {
	evt := &Event{ID: "EuroOpen2026"}

	want := "https://www.worldcubeassociation.org/competitions/EuroOpen2026#general-info"
	assert.Equal(t, want, evt.URL("https://www.worldcubeassociation.org/competitions"))
	assert.Equal(t, want, evt.URL("https://www.worldcubeassociation.org/competitions/"))
}

func TestEvent_IsFull(t *testing.T) {
	tests := []struct {
		name     string
		max      *int
		current  *int
		wantFull bool
		wantOK   bool
	}{
		{"below capacity", Int(100), Int(99), false, true},
		{"at capacity", Int(100), Int(100), true, true},
		{"over capacity", Int(100), Int(120), true, true},
		{"unknown max", nil, Int(10), false, false},
		{"unknown current", Int(100), nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{MaxCompetitors: tt.max, CurrentCompetitors: tt.current}
			full, ok := evt.IsFull()
			assert.Equal(t, tt.wantFull, full)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestEvent_JSONOmitsUnknowns(t *testing.T) {
	evt := &Event{ID: "X2026", Name: "X 2026"}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "location")
	assert.NotContains(t, raw, "converted_fee")
	assert.NotContains(t, raw, "max_competitors")

	evt.Location = &orb.Point{13.4, 52.5}
	data, err = json.Marshal(evt)
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Location)
	assert.Equal(t, 52.5, back.Location.Lat())
	assert.Equal(t, 13.4, back.Location.Lon())
}
