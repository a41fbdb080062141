package parse

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/sfx/journal"
)

// TokensPerRecord is the number of whitespace separated tokens describing
// one trade when a report is pasted as a single line.
const TokensPerRecord = 9

// MalformedInputError reports a single-line input whose token count cannot
// be split into whole records. Nothing is parsed from such an input.
type MalformedInputError struct {
	Tokens int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %d tokens is not a multiple of %d", e.Tokens, TokensPerRecord)
}

// Result holds the parsed records and any trailing lines that did not make
// up a whole record.
type Result struct {
	Records []journal.TradeRecord
	Dropped []string
}

// Parser turns pasted report text into trade records for a given year.
type Parser struct {
	Year   int
	Logger zerolog.Logger
}

func NewParser(year int, log zerolog.Logger) *Parser {
	return &Parser{Year: year, Logger: log}
}

// Parse returns the records in raw, in input order.
func Parse(raw string, year int) ([]journal.TradeRecord, error) {
	res, err := NewParser(year, zerolog.Nop()).Parse(raw)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Parse detects the input shape and parses it. Text containing a line break
// is read as one field per line; otherwise it is read as a token stream.
func (p *Parser) Parse(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, nil
	}
	if strings.ContainsAny(raw, "\r\n") {
		return p.parseLines(raw), nil
	}
	return p.parseTokens(raw)
}

func (p *Parser) parseLines(raw string) Result {
	var lines []string
	for _, l := range strings.FieldsFunc(raw, isLineBreak) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	var res Result
	for i := 0; i < len(lines); i += LinesPerRecord {
		if i+LinesPerRecord > len(lines) {
			res.Dropped = lines[i:]
			p.Logger.Warn().
				Int("lines", len(res.Dropped)).
				Strs("dropped", res.Dropped).
				Msg("trailing lines do not form a whole record")
			break
		}
		if rec, ok := BuildRecord(lines[i:i+LinesPerRecord], p.Year, p.Logger); ok {
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

func (p *Parser) parseTokens(raw string) (Result, error) {
	tokens := strings.Fields(raw)
	if len(tokens)%TokensPerRecord != 0 {
		return Result{}, &MalformedInputError{Tokens: len(tokens)}
	}

	var res Result
	for i := 0; i < len(tokens); i += TokensPerRecord {
		tk := tokens[i : i+TokensPerRecord]
		group := []string{
			tk[0],                             // symbol
			tk[1],                             // action
			tk[2] + " " + tk[3],               // gain, "75 PIPS"
			tk[4] + " " + tk[5] + " " + tk[6], // status and date, "won January 10"
			tk[7] + " " + tk[8],               // time, "05:27:38 PM"
		}
		if rec, ok := BuildRecord(group, p.Year, p.Logger); ok {
			res.Records = append(res.Records, rec)
		}
	}
	return res, nil
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}
