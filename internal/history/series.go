package history

import "time"

// Series is the columnar chart shape served to the rendering layer. All
// slices have the same length and are index-aligned with Labels; missing
// values are explicit nulls so alignment survives JSON encoding.
type Series struct {
	Labels      []string   `json:"labels"`
	Temperature []*float64 `json:"temperature"`
	CPU         []*float64 `json:"cpu"`
	RAM         []*float64 `json:"ram"`
	Fan         []*float64 `json:"fan"`
	Online      []*bool    `json:"online"`
}

// BuildSeries converts an ordered entry sequence into the columnar shape.
func BuildSeries(entries []Entry) Series {
	n := len(entries)
	s := Series{
		Labels:      make([]string, n),
		Temperature: make([]*float64, n),
		CPU:         make([]*float64, n),
		RAM:         make([]*float64, n),
		Fan:         make([]*float64, n),
		Online:      make([]*bool, n),
	}
	for i, e := range entries {
		s.Labels[i] = e.Timestamp.Format(time.RFC3339)
		s.Temperature[i] = e.TemperatureC
		s.CPU[i] = e.CPUPercent
		s.RAM[i] = e.RAMPercent
		s.Fan[i] = e.FanPercent
		s.Online[i] = e.Online
	}
	return s
}
