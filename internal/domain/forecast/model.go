package forecast

import (
	"bytes"
	"encoding/json"
	"time"
)

// HourlySeries holds the four parallel hourly sequences returned by the weather source.
type HourlySeries struct {
	Times       []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	Humidity    []float64 `json:"relative_humidity_2m"`
	Rain        []float64 `json:"rain"`
}

// Sample is one aligned hourly observation.
type Sample struct {
	Time        time.Time
	Clock       string
	Temperature float64
	Humidity    float64
	Rain        float64
}

// RainEvent records an hour with measurable rain.
type RainEvent struct {
	Time string  `json:"time"`
	Rain float64 `json:"rain"`
}

// DailySummary aggregates every sample that falls on one calendar date.
type DailySummary struct {
	Date               string      `json:"-"`
	AverageTemperature float64     `json:"average_temperature"`
	AverageHumidity    float64     `json:"average_humidity"`
	TotalRain          float64     `json:"total_rain"`
	RainEvents         []RainEvent `json:"rain_times"`
}

// Daily is the per-date summary list in first-seen order.
type Daily []DailySummary

// Dates returns the bucket keys in order.
func (d Daily) Dates() []string {
	out := make([]string, 0, len(d))
	for _, day := range d {
		out = append(out, day.Date)
	}
	return out
}

// Lookup returns the summary for a date.
func (d Daily) Lookup(date string) (DailySummary, bool) {
	for _, day := range d {
		if day.Date == date {
			return day, true
		}
	}
	return DailySummary{}, false
}

// Dry reports whether no rain was recorded on any day.
func (d Daily) Dry() bool {
	for _, day := range d {
		if len(day.RainEvents) > 0 {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the summaries as an object keyed by date, keeping bucket order.
func (d Daily) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.Date)
		if err != nil {
			return nil, err
		}
		if day.RainEvents == nil {
			day.RainEvents = []RainEvent{}
		}
		value, err := json.Marshal(day)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
