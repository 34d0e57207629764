package export

import (
	"github.com/montanaflynn/stats"

	"github.com/JonMunkholm/genesis/internal/core"
)

// ColumnSummary describes one column of a parsed table.
type ColumnSummary struct {
	Index   int           `json:"index"`
	Name    string        `json:"name"`
	Numeric int           `json:"numeric"`
	Strings int           `json:"strings"`
	Missing int           `json:"missing"`
	Stats   *NumericStats `json:"stats,omitempty"`
}

// NumericStats summarizes the numeric cells of a column. StdDev is the
// population standard deviation.
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Summarize counts cell kinds per column and computes statistics over the
// numeric cells. Columns without numbers have nil Stats.
func Summarize(t *core.Table) []ColumnSummary {
	out := make([]ColumnSummary, t.NumCols())
	for i, name := range t.Columns {
		s := ColumnSummary{Index: i, Name: name}

		var data stats.Float64Data
		for _, c := range t.Column(i) {
			switch {
			case c.IsMissing():
				s.Missing++
			case c.IsNumeric():
				s.Numeric++
				v, _ := c.Number()
				data = append(data, v)
			default:
				s.Strings++
			}
		}

		if len(data) > 0 {
			s.Stats = numericStats(data)
		}
		out[i] = s
	}
	return out
}

// numericStats expects non-empty data; stats only fails on empty input.
func numericStats(data stats.Float64Data) *NumericStats {
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	sum, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)

	return &NumericStats{
		Min:    min,
		Max:    max,
		Sum:    sum,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}
}
