package journal

import "sort"

// ProviderStats aggregates the gains reported by one provider.
type ProviderStats struct {
	Provider string
	Trades   int
	Wins     int
	Losses   int
	NetGain  int
	Unparsed int // gains kept as text
}

// WinRate is the share of numeric trades with a positive gain.
func (p ProviderStats) WinRate() float64 {
	n := p.Trades - p.Unparsed
	if n == 0 {
		return 0
	}
	return float64(p.Wins) / float64(n)
}

// SummarizeByProvider groups records by provider, sorted by provider name.
func SummarizeByProvider(records []TradeRecord) []ProviderStats {
	byProvider := map[string]*ProviderStats{}
	for _, t := range records {
		ps, ok := byProvider[t.Provider]
		if !ok {
			ps = &ProviderStats{Provider: t.Provider}
			byProvider[t.Provider] = ps
		}
		ps.Trades++

		n, ok := t.Gain.Int()
		switch {
		case !ok:
			ps.Unparsed++
		case n > 0:
			ps.Wins++
		case n < 0:
			ps.Losses++
		}
		ps.NetGain += n
	}

	out := make([]ProviderStats, 0, len(byProvider))
	for _, ps := range byProvider {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
