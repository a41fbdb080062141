package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/sfx/journal"
)

// ErrFieldFormat marks a field that could not be normalized. The field is
// kept verbatim and the record is still produced.
var ErrFieldFormat = errors.New("unrecognized field format")

// Unit words stripped from gains, longest first so "POINTS" does not leave
// a stray "S".
var gainUnits = []string{"POINTS", "POINT", "PIPS"}

var gainNumber = regexp.MustCompile(`-?\d+`)

const (
	datePhraseLayout = "January 2 2006"
	clock12Layout    = "3:04:05 PM"
)

// NormalizeGain extracts the first signed integer from a gain phrase such
// as "-15 PIPS". Without one, the unit-stripped text is returned.
func NormalizeGain(text string) journal.Gain {
	for _, unit := range gainUnits {
		text = strings.ReplaceAll(text, unit, "")
	}
	text = strings.TrimSpace(text)

	m := gainNumber.FindString(text)
	if m == "" {
		return journal.GainText(text)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return journal.GainText(text)
	}
	return journal.GainInt(n)
}

// SplitStatusAndDate splits "won January 10" into the status and the date
// phrase. A single token is treated as a date phrase with no status.
func SplitStatusAndDate(text string) (status, phrase string) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", strings.TrimSpace(text)
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// NormalizeDate turns "February 10" into "2025-02-10" for year 2025.
func NormalizeDate(phrase string, year int) (journal.Field, error) {
	ts, err := time.Parse(datePhraseLayout, fmt.Sprintf("%s %04d", strings.TrimSpace(phrase), year))
	if err != nil {
		return journal.Verbatim(phrase), fmt.Errorf("date %q: %w", phrase, ErrFieldFormat)
	}
	return journal.Canonical(ts.Format(journal.DateLayout)), nil
}

// NormalizeTime turns a 12-hour "02:36:27 PM" into "14:36:27".
func NormalizeTime(text string) (journal.Field, error) {
	clean := strings.ToUpper(strings.TrimSpace(text))
	ts, err := time.Parse(clock12Layout, clean)
	// time.Parse accepts hour 0 on a 12-hour clock; a report never does.
	if err == nil && (strings.HasPrefix(clean, "0:") || strings.HasPrefix(clean, "00:")) {
		err = ErrFieldFormat
	}
	if err != nil {
		return journal.Verbatim(text), fmt.Errorf("time %q: %w", text, ErrFieldFormat)
	}
	return journal.Canonical(ts.Format(journal.TimeLayout)), nil
}
