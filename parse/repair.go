package parse

import (
	"github.com/rustyeddy/sfx/journal"
)

// Repair normalizes a stored record whose fields were saved before they
// could be parsed: gains still carrying unit words, "Month DD" dates and
// 12-hour times. Canonical values are left alone. It reports whether the
// record changed.
func Repair(rec journal.TradeRecord, year int) (journal.TradeRecord, bool) {
	out := rec

	if _, ok := rec.Gain.Int(); !ok {
		out.Gain = NormalizeGain(rec.Gain.String())
	}
	if !rec.Date.Canonical {
		if d, err := NormalizeDate(rec.Date.Value, year); err == nil {
			out.Date = d
		}
	}
	if !rec.Time.Canonical {
		if c, err := NormalizeTime(rec.Time.Value); err == nil {
			out.Time = c
		}
	}

	return out, out != rec
}
