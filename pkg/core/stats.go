package core

import (
	"sort"
)

// NumberStats summarizes the present values of one numeric column.
type NumberStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Count is a labelled tally used for per-source and per-type breakdowns.
type Count struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Stats are the dataset summary figures shown in the sidebar, the stats
// command and the text report.
type Stats struct {
	Total    int         `json:"total"`
	BySource []Count     `json:"by_source"`
	ByType   []Count     `json:"by_type"`
	Price    NumberStats `json:"price"`
	Data     NumberStats `json:"data"`
	Cycle    NumberStats `json:"cycle"`
}

// SourceCount returns the tally for one source, 0 when not present.
func (s Stats) SourceCount(src Source) int {
	for _, c := range s.BySource {
		if c.Key == string(src) {
			return c.Count
		}
	}
	return 0
}

// Summarize computes Stats over records. Absent values are skipped.
func Summarize(records []Record) Stats {
	st := Stats{Total: len(records)}

	var prices, data, cycles []float64
	bySource := map[string]int{}
	byType := map[string]int{}
	for i := range records {
		r := &records[i]
		bySource[string(r.Source)]++
		if r.PackageType != "" {
			byType[r.PackageType]++
		}
		if v, ok := r.Price.Get(); ok {
			prices = append(prices, v)
		}
		if v, ok := r.DataGB.Get(); ok {
			data = append(data, v)
		}
		if v, ok := r.CycleDays.Get(); ok {
			cycles = append(cycles, float64(v))
		}
	}

	st.Price = describe(prices)
	st.Data = describe(data)
	st.Cycle = describe(cycles)
	st.BySource = tally(bySource, len(records), sourceOrder)
	st.ByType = tally(byType, len(records), nil)
	return st
}

func describe(values []float64) NumberStats {
	if len(values) == 0 {
		return NumberStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return NumberStats{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// sourceOrder ranks known sources first in their declared order.
func sourceOrder(key string) int {
	for i, s := range KnownSources {
		if string(s) == key {
			return i
		}
	}
	return len(KnownSources)
}

// tally turns a count map into a slice. With a rank function the slice is
// ordered by rank then key; otherwise by descending count then key.
func tally(m map[string]int, total int, rank func(string) int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		c := Count{Key: k, Count: n}
		if total > 0 {
			c.Percent = float64(n) * 100 / float64(total)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if rank != nil {
			ri, rj := rank(out[i].Key), rank(out[j].Key)
			if ri != rj {
				return ri < rj
			}
			return out[i].Key < out[j].Key
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
