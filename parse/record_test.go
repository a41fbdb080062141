package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sfx/journal"
)

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	rec, ok := BuildRecord([]string{
		" EUR/CAD ",
		"buy",
		"-15 PIPS",
		"stop-loss\tFebruary 10",
		"02:36:27 PM",
	}, 2025, zerolog.Nop())
	require.True(t, ok)

	assert.Equal(t, journal.TradeRecord{
		Symbol:   "EUR/CAD",
		Action:   "buy",
		Gain:     journal.GainInt(-15),
		StopLoss: "stop-loss",
		Date:     journal.Canonical("2025-02-10"),
		Time:     journal.Canonical("14:36:27"),
	}, rec)
}

func TestBuildRecordShortGroup(t *testing.T) {
	t.Parallel()

	_, ok := BuildRecord([]string{"EUR/CAD", "buy", "-15 PIPS", "won February 10"}, 2025, zerolog.Nop())
	assert.False(t, ok)
}

func TestBuildRecordKeepsBadFieldsVerbatim(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	rec, ok := BuildRecord([]string{"EUR/CAD", "buy", "n/a", "won Febtember 10", "teatime"}, 2025, log)
	require.True(t, ok)

	assert.Equal(t, journal.GainText("n/a"), rec.Gain)
	assert.Equal(t, "won", rec.StopLoss)
	assert.Equal(t, journal.Verbatim("Febtember 10"), rec.Date)
	assert.Equal(t, journal.Verbatim("teatime"), rec.Time)

	out := buf.String()
	assert.Contains(t, out, `"field":"date"`)
	assert.Contains(t, out, `"field":"time"`)
	assert.Equal(t, 2, strings.Count(out, `"level":"warn"`))
}

func TestBuildRecordTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("any five lines build a record", prop.ForAll(
		func(symbol, action, gain, status, clock string) bool {
			rec, ok := BuildRecord([]string{" " + symbol + " ", action + "\t", gain, status, clock}, 2025, zerolog.Nop())
			return ok &&
				rec.Symbol == strings.TrimSpace(symbol) &&
				rec.Action == strings.TrimSpace(action)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
