// journal/journal.go
package journal

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// TradeRecord is one reported trade. Records are values: build a new one
// instead of editing a stored one.
type TradeRecord struct {
	Symbol   string
	Action   string
	Gain     Gain
	StopLoss string
	Date     Field
	Time     Field
	Provider string
}

// Gain holds the numeric gain of a trade, or the original text when no
// number could be extracted from it.
type Gain struct {
	n       int
	text    string
	numeric bool
}

func GainInt(n int) Gain {
	return Gain{n: n, numeric: true}
}

func GainText(s string) Gain {
	return Gain{text: s}
}

// ParseGain reads a gain as stored in the CSV file.
func ParseGain(s string) Gain {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return GainInt(n)
	}
	return GainText(s)
}

// Int returns the numeric gain and whether there is one.
func (g Gain) Int() (int, bool) {
	return g.n, g.numeric
}

func (g Gain) String() string {
	if g.numeric {
		return strconv.Itoa(g.n)
	}
	return g.text
}

// Field is a date or time value that is either in canonical form or kept
// verbatim because it could not be normalized.
type Field struct {
	Value     string
	Canonical bool
}

func Canonical(v string) Field { return Field{Value: v, Canonical: true} }

func Verbatim(v string) Field { return Field{Value: v} }

func (f Field) String() string { return f.Value }

// DateField classifies a stored date string.
func DateField(s string) Field {
	if _, err := time.Parse(DateLayout, s); err == nil {
		return Canonical(s)
	}
	return Verbatim(s)
}

// TimeField classifies a stored time string.
func TimeField(s string) Field {
	if _, err := time.Parse(TimeLayout, s); err == nil && len(s) == len(TimeLayout) {
		return Canonical(s)
	}
	return Verbatim(s)
}

// Key identifies a record for deduplication.
type Key struct {
	Symbol, Action, Gain, StopLoss, Date, Time, Provider string
}

func (t TradeRecord) Key() Key {
	return Key{
		Symbol:   t.Symbol,
		Action:   t.Action,
		Gain:     t.Gain.String(),
		StopLoss: t.StopLoss,
		Date:     t.Date.Value,
		Time:     t.Time.Value,
		Provider: t.Provider,
	}
}

// WithProvider returns a copy of t tagged with provider p.
func (t TradeRecord) WithProvider(p string) TradeRecord {
	t.Provider = p
	return t
}

// Timestamp combines date and time in UTC when both are canonical.
func (t TradeRecord) Timestamp() (time.Time, bool) {
	if !t.Date.Canonical || !t.Time.Canonical {
		return time.Time{}, false
	}
	ts, err := time.Parse(DateLayout+" "+TimeLayout, t.Date.Value+" "+t.Time.Value)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
