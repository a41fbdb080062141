// Package ingest is the entry point used by front ends: it parses pasted
// report text, merges it into the store and summarizes what changed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rustyeddy/sfx/backup"
	"github.com/rustyeddy/sfx/internal/logging"
	"github.com/rustyeddy/sfx/internal/trace"
	"github.com/rustyeddy/sfx/journal"
	"github.com/rustyeddy/sfx/parse"
	"github.com/rustyeddy/sfx/pkg/id"
)

var (
	ErrEmptyInput      = errors.New("no trades to add")
	ErrMissingProvider = errors.New("provider is required")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrInvalidYear     = errors.New("year out of range")
)

// Mirror receives the full store after each successful merge.
type Mirror interface {
	Sync(ctx context.Context, records []journal.TradeRecord) error
}

// Service runs ingests against one store. Backup and Mirror are optional.
type Service struct {
	Store     *journal.Store
	Backup    *backup.Manager
	Mirror    Mirror
	Providers []string
	Logger    zerolog.Logger
}

func NewService(store *journal.Store, log zerolog.Logger) *Service {
	return &Service{Store: store, Logger: log}
}

// Result describes one ingest.
type Result struct {
	Provider   string
	Parsed     int
	Added      []journal.TradeRecord
	Duplicates int
	Dropped    []string
	Total      int
	Snapshot   string
}

// Run parses raw for year, tags the records with provider and merges them
// into the store. Parse errors, including *parse.MalformedInputError, are
// returned unchanged and leave the store untouched.
func (s *Service) Run(ctx context.Context, raw string, year int, provider string) (*Result, error) {
	provider = strings.TrimSpace(provider)
	if err := s.validate(raw, year, provider); err != nil {
		return nil, err
	}

	log := logging.WithBatch(s.Logger, id.New(), provider)
	ctx = logging.WithLogger(ctx, log)

	ctx, span := trace.StartSpan(ctx, "ingest.run")
	defer span.End()
	span.SetAttributes(attribute.String("provider", provider), attribute.Int("year", year))

	res, err := s.run(ctx, raw, year, provider)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Msg("ingest failed")
		return nil, err
	}

	log.Info().
		Int("parsed", res.Parsed).
		Int("added", len(res.Added)).
		Int("duplicates", res.Duplicates).
		Int("dropped_lines", len(res.Dropped)).
		Int("total", res.Total).
		Msg("ingest complete")
	return res, nil
}

func (s *Service) run(ctx context.Context, raw string, year int, provider string) (*Result, error) {
	log := logging.FromContext(ctx)

	_, pspan := trace.StartSpan(ctx, "ingest.parse")
	parsed, err := parse.NewParser(year, log).Parse(raw)
	pspan.End()
	if err != nil {
		return nil, err
	}

	records := make([]journal.TradeRecord, len(parsed.Records))
	for i, rec := range parsed.Records {
		records[i] = rec.WithProvider(provider)
	}

	res := &Result{
		Provider: provider,
		Parsed:   len(records),
		Dropped:  parsed.Dropped,
	}

	if s.Backup != nil {
		snap, err := s.Backup.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("snapshot before merge: %w", err)
		}
		res.Snapshot = snap
	}

	_, mspan := trace.StartSpan(ctx, "ingest.merge")
	merged, err := s.Store.Merge(records)
	mspan.End()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	res.Added = merged.Added
	res.Duplicates = merged.Duplicates
	res.Total = merged.Total

	if s.Mirror != nil {
		if err := s.syncMirror(ctx); err != nil {
			// The CSV store is already written; a stale mirror is rebuilt on
			// the next sync.
			log.Warn().Err(err).Msg("mirror sync failed")
		}
	}
	return res, nil
}

func (s *Service) syncMirror(ctx context.Context) error {
	all, err := s.Store.Load()
	if err != nil {
		return err
	}
	return s.Mirror.Sync(ctx, all)
}

func (s *Service) validate(raw string, year int, provider string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyInput
	}
	if provider == "" {
		return ErrMissingProvider
	}
	if len(s.Providers) > 0 && !slices.Contains(s.Providers, provider) {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

// Span returns the earliest and latest canonical timestamps among the
// added records.
func (r *Result) Span() (first, last time.Time, ok bool) {
	for _, t := range r.Added {
		ts, tok := t.Timestamp()
		if !tok {
			continue
		}
		if !ok || ts.Before(first) {
			first = ts
		}
		if !ok || ts.After(last) {
			last = ts
		}
		ok = true
	}
	return first, last, ok
}

// Summary is the status line shown to the operator.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added %d of %d trades for %s", len(r.Added), r.Parsed, r.Provider)
	if r.Duplicates > 0 {
		fmt.Fprintf(&b, " (%d already stored)", r.Duplicates)
	}
	if first, last, ok := r.Span(); ok {
		const layout = journal.DateLayout + " " + journal.TimeLayout
		fmt.Fprintf(&b, ", from %s to %s", first.Format(layout), last.Format(layout))
	}
	b.WriteString(".")
	if n := len(r.Dropped); n > 0 {
		fmt.Fprintf(&b, " Warning: %d trailing line(s) ignored: %q.", n, r.Dropped)
	}
	return b.String()
}
