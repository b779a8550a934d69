package forecast

import (
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type bucket struct {
	temperatures []float64
	humidities   []float64
	rain         float64
	events       []RainEvent
}

// Aggregate folds an hourly series into per-day summaries in first-seen date order.
// It never returns a partial result.
func Aggregate(series HourlySeries) (Daily, error) {
	samples, err := series.Samples()
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, 8)
	buckets := make(map[string]*bucket)
	for _, s := range samples {
		date := s.Time.Format("2006-01-02")
		b, ok := buckets[date]
		if !ok {
			b = &bucket{events: []RainEvent{}}
			buckets[date] = b
			order = append(order, date)
		}
		b.temperatures = append(b.temperatures, s.Temperature)
		b.humidities = append(b.humidities, s.Humidity)
		b.rain += s.Rain
		if s.Rain > 0 {
			b.events = append(b.events, RainEvent{Time: s.Clock, Rain: s.Rain})
		}
	}

	out := make(Daily, 0, len(order))
	for _, date := range order {
		b := buckets[date]
		out = append(out, DailySummary{
			Date:               date,
			AverageTemperature: Round1(mean(b.temperatures)),
			AverageHumidity:    Round1(mean(b.humidities)),
			TotalRain:          Round1(b.rain),
			RainEvents:         b.events,
		})
	}
	return out, nil
}

// Samples zips the parallel sequences into aligned samples.
func (s HourlySeries) Samples() ([]Sample, error) {
	switch {
	case len(s.Times) == 0:
		return nil, &IncompleteDataError{Reason: "time series is empty"}
	case len(s.Temperature) == 0:
		return nil, &IncompleteDataError{Reason: "temperature series is empty"}
	case len(s.Humidity) == 0:
		return nil, &IncompleteDataError{Reason: "humidity series is empty"}
	case len(s.Rain) == 0:
		return nil, &IncompleteDataError{Reason: "rain series is empty"}
	}
	n := len(s.Times)
	if len(s.Temperature) != n || len(s.Humidity) != n || len(s.Rain) != n {
		return nil, &IncompleteDataError{Reason: fmt.Sprintf(
			"series lengths disagree: time=%d temperature=%d humidity=%d rain=%d",
			n, len(s.Temperature), len(s.Humidity), len(s.Rain))}
	}

	samples := make([]Sample, 0, n)
	for i, raw := range s.Times {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, &IncompleteDataError{Reason: fmt.Sprintf("invalid timestamp %q at index %d", raw, i)}
		}
		samples = append(samples, Sample{
			Time:        ts,
			Clock:       ts.Format("15:04"),
			Temperature: s.Temperature[i],
			Humidity:    s.Humidity[i],
			Rain:        s.Rain[i],
		})
	}
	return samples, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Round1 rounds to one decimal place, half to even on the exact binary value.
func Round1(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
