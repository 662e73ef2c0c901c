package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a single sampled point. Every metric field is optional: a sensor
// that cannot be read is stored as nil, never as a zero value.
type Entry struct {
	Timestamp    time.Time
	CPUPercent   *float64
	RAMPercent   *float64
	TemperatureC *float64
	FanPercent   *float64
	Online       *bool
}

// logRecord is the on-disk line format of the full-history log.
type logRecord struct {
	TS          string   `json:"ts"`
	CPU         *float64 `json:"cpu"`
	RAM         *float64 `json:"ram"`
	Temperature *float64 `json:"temperature"`
	Fan         *float64 `json:"fan"`
	Online      *bool    `json:"online"`
}

func marshalEntry(e Entry) ([]byte, error) {
	return json.Marshal(logRecord{
		TS:          e.Timestamp.Format(time.RFC3339Nano),
		CPU:         e.CPUPercent,
		RAM:         e.RAMPercent,
		Temperature: e.TemperatureC,
		Fan:         e.FanPercent,
		Online:      e.Online,
	})
}

func unmarshalEntry(line []byte) (Entry, error) {
	var rec logRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return Entry{}, err
	}
	if rec.TS == "" {
		return Entry{}, fmt.Errorf("missing timestamp")
	}
	ts, err := time.Parse(time.RFC3339Nano, rec.TS)
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q: %w", rec.TS, err)
	}
	return Entry{
		Timestamp:    ts,
		CPUPercent:   rec.CPU,
		RAMPercent:   rec.RAM,
		TemperatureC: rec.Temperature,
		FanPercent:   rec.Fan,
		Online:       rec.Online,
	}, nil
}
