package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sfx/backup"
	"github.com/rustyeddy/sfx/journal"
	"github.com/rustyeddy/sfx/parse"
)

const twoTrades = `EUR/USD
buy
75 PIPS
won January 14
08:16:42 AM
GBP/USD
sell
-20 PIPS
stop-loss February 03
01:05:00 PM
`

type fakeMirror struct {
	calls   int
	records []journal.TradeRecord
	err     error
}

func (m *fakeMirror) Sync(_ context.Context, records []journal.TradeRecord) error {
	m.calls++
	m.records = records
	return m.err
}

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	store := journal.NewStore(filepath.Join(dir, "sfx_data.csv"))
	svc := NewService(store, zerolog.Nop())
	svc.Backup = backup.NewManager(store.Path, filepath.Join(dir, "backups"), filepath.Join(dir, "redo"), zerolog.Nop())
	return svc
}

func TestRunAddsRecords(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	res, err := svc.Run(context.Background(), twoTrades, 2025, "ReyNova-RYD")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Parsed)
	assert.Len(t, res.Added, 2)
	assert.Zero(t, res.Duplicates)
	assert.Equal(t, 2, res.Total)
	assert.Empty(t, res.Snapshot, "no store to snapshot on first ingest")

	stored, err := svc.Store.Load()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, rec := range stored {
		assert.Equal(t, "ReyNova-RYD", rec.Provider)
	}
	assert.Equal(t, "2025-02-03", stored[1].Date.Value)
	assert.Equal(t, "13:05:00", stored[1].Time.Value)
}

func TestRunTwiceAddsNothing(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "ReyNova-RYD")
	require.NoError(t, err)

	res, err := svc.Run(ctx, twoTrades, 2025, "ReyNova-RYD")
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 2, res.Total)
	assert.NotEmpty(t, res.Snapshot)

	infos, err := svc.Backup.Undos()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestRunSameTradesOtherProvider(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "ReyNova-RYD")
	require.NoError(t, err)
	res, err := svc.Run(ctx, twoTrades, 2025, "LunarEclipse-LKS")
	require.NoError(t, err)
	assert.Len(t, res.Added, 2)
	assert.Equal(t, 4, res.Total)
}

func TestRunUndoRestoresPreviousStore(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "ReyNova-RYD")
	require.NoError(t, err)
	before, err := os.ReadFile(svc.Store.Path)
	require.NoError(t, err)

	_, err = svc.Run(ctx, twoTrades, 2025, "LunarEclipse-LKS")
	require.NoError(t, err)

	ok, err := svc.Backup.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	after, err := os.ReadFile(svc.Store.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		year     int
		provider string
		want     error
	}{
		{"blank text", "  \n\t", 2025, "X", ErrEmptyInput},
		{"missing provider", twoTrades, 2025, " ", ErrMissingProvider},
		{"unknown provider", twoTrades, 2025, "Nobody", ErrUnknownProvider},
		{"year zero", twoTrades, 0, "X", ErrInvalidYear},
		{"year too large", twoTrades, 10000, "X", ErrInvalidYear},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(t)
			svc.Providers = []string{"X"}

			_, err := svc.Run(context.Background(), tt.raw, tt.year, tt.provider)
			assert.ErrorIs(t, err, tt.want)

			_, statErr := os.Stat(svc.Store.Path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRunMalformedLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "X")
	require.NoError(t, err)
	before, err := os.ReadFile(svc.Store.Path)
	require.NoError(t, err)

	raw := "EUR/USD buy 75 PIPS won January 14 08:16:42 AM GBP/USD buy 10 PIPS won January 15 09:00:00"
	_, err = svc.Run(ctx, raw, 2025, "X")

	var malformed *parse.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 17, malformed.Tokens)

	after, err := os.ReadFile(svc.Store.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	infos, err := svc.Backup.Undos()
	require.NoError(t, err)
	assert.Empty(t, infos, "failed ingest must not snapshot")
}

func TestRunSingleLine(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	raw := "EUR/USD buy 75 PIPS won January 14 08:16:42 AM"
	res, err := svc.Run(context.Background(), raw, 2025, "X")
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, journal.GainInt(75), res.Added[0].Gain)
	assert.Equal(t, "X", res.Added[0].Provider)
}

func TestRunReportsDroppedLines(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	res, err := svc.Run(context.Background(), twoTrades+"AUD/USD\nbuy\n", 2025, "X")
	require.NoError(t, err)
	assert.Len(t, res.Added, 2)
	assert.Equal(t, []string{"AUD/USD", "buy"}, res.Dropped)
	assert.Contains(t, res.Summary(), "2 trailing line(s) ignored")
}

func TestRunWithoutBackup(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	svc.Backup = nil
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "X")
	require.NoError(t, err)
	res, err := svc.Run(ctx, twoTrades, 2025, "Y")
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot)
}

func TestRunSyncsMirror(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	m := &fakeMirror{}
	svc.Mirror = m
	ctx := context.Background()

	_, err := svc.Run(ctx, twoTrades, 2025, "X")
	require.NoError(t, err)
	_, err = svc.Run(ctx, twoTrades, 2025, "Y")
	require.NoError(t, err)

	assert.Equal(t, 2, m.calls)
	assert.Len(t, m.records, 4)
}

func TestRunMirrorFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	svc.Mirror = &fakeMirror{err: errors.New("disk full")}

	res, err := svc.Run(context.Background(), twoTrades, 2025, "X")
	require.NoError(t, err)
	assert.Len(t, res.Added, 2)
}

func TestRunWithSQLiteMirror(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	db, err := journal.NewSQLite(filepath.Join(t.TempDir(), "sfx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc.Mirror = db
	ctx := context.Background()

	_, err = svc.Run(ctx, twoTrades, 2025, "X")
	require.NoError(t, err)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := db.ListByDate(ctx, "2025-01-14")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "EUR/USD", recs[0].Symbol)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	res := &Result{
		Provider: "X",
		Parsed:   3,
		Added: []journal.TradeRecord{
			{Date: journal.Canonical("2025-02-03"), Time: journal.Canonical("13:05:00")},
			{Date: journal.Verbatim("Feb 30"), Time: journal.Canonical("10:00:00")},
			{Date: journal.Canonical("2025-01-14"), Time: journal.Canonical("08:16:42")},
		},
		Duplicates: 1,
	}

	assert.Equal(t,
		"Added 3 of 3 trades for X (1 already stored), from 2025-01-14 08:16:42 to 2025-02-03 13:05:00.",
		res.Summary())
}

func TestSummaryNothingAdded(t *testing.T) {
	t.Parallel()

	res := &Result{Provider: "X", Parsed: 2, Duplicates: 2}
	assert.Equal(t, "Added 0 of 2 trades for X (2 already stored).", res.Summary())

	_, _, ok := res.Span()
	assert.False(t, ok)
}
