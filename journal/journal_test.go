package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		numeric bool
	}{
		{"75", "75", true},
		{"-15", "-15", true},
		{" 30 ", "30", true},
		{"garbage", "garbage", false},
		{"", "", false},
	}

	for _, tt := range tests {
		g := ParseGain(tt.in)
		_, ok := g.Int()
		assert.Equal(t, tt.numeric, ok, tt.in)
		assert.Equal(t, tt.want, g.String(), tt.in)
	}
}

func TestFieldClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, DateField("2025-02-10").Canonical)
	assert.False(t, DateField("February 10").Canonical)
	assert.True(t, TimeField("14:36:27").Canonical)
	assert.False(t, TimeField("02:36:27 PM").Canonical)
	assert.False(t, TimeField("8:16:42").Canonical)
}

func TestKeyIgnoresCanonicalFlag(t *testing.T) {
	t.Parallel()

	a := sampleRecord()
	b := a
	b.Date = Verbatim(a.Date.Value)
	assert.Equal(t, a.Key(), b.Key())

	c := a.WithProvider("Y")
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "X", a.Provider)
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	ts, ok := sampleRecord().Timestamp()
	assert.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 1, 14, 8, 16, 42, 0, time.UTC)))

	rec := sampleRecord()
	rec.Time = Verbatim("soon")
	_, ok = rec.Timestamp()
	assert.False(t, ok)
}
