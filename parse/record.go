package parse

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/sfx/journal"
)

// LinesPerRecord is the number of report lines describing one trade:
// symbol, action, gain, status and date, time.
const LinesPerRecord = 5

// BuildRecord builds a trade from one group of report lines. It returns
// false when the group is too short. Fields that cannot be normalized are
// logged and kept verbatim.
func BuildRecord(group []string, year int, log zerolog.Logger) (journal.TradeRecord, bool) {
	if len(group) < LinesPerRecord {
		return journal.TradeRecord{}, false
	}

	status, phrase := SplitStatusAndDate(strings.TrimSpace(group[3]))

	date, err := NormalizeDate(phrase, year)
	if err != nil {
		log.Warn().Err(err).Str("field", "date").Msg("keeping date verbatim")
	}
	clock, err := NormalizeTime(strings.TrimSpace(group[4]))
	if err != nil {
		log.Warn().Err(err).Str("field", "time").Msg("keeping time verbatim")
	}

	return journal.TradeRecord{
		Symbol:   strings.TrimSpace(group[0]),
		Action:   strings.TrimSpace(group[1]),
		Gain:     NormalizeGain(group[2]),
		StopLoss: status,
		Date:     date,
		Time:     clock,
	}, true
}
