package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet_AddIsIdempotent(t *testing.T) {
	s := NewIDSet("A2026")

	assert.Equal(t, 1, s.Add("B2026"))
	assert.Equal(t, 0, s.Add("A2026", "B2026"))
	assert.Equal(t, 1, s.Add("C2026", "C2026", ""))

	assert.Len(t, s, 3)
	assert.Equal(t, []string{"A2026", "B2026", "C2026"}, s.Sorted())
}

func TestIDSet_NilHas(t *testing.T) {
	var s IDSet
	assert.False(t, s.Has("A2026"))
	assert.Empty(t, s.Sorted())
}

func TestIDSet_CloneIsIndependent(t *testing.T) {
	s := NewIDSet("A2026")
	c := s.Clone()
	c.Add("B2026")

	assert.False(t, s.Has("B2026"))
	assert.True(t, c.Has("A2026"))
}

func TestIDSet_JSON(t *testing.T) {
	s := NewIDSet("Zeta2026", "Alpha2026")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["Alpha2026","Zeta2026"]`, string(data))

	var back IDSet
	require.NoError(t, json.Unmarshal([]byte(`["A","B","A"]`), &back))
	assert.Len(t, back, 2)
	assert.True(t, back.Has("A"))
}
