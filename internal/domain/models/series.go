package models

import "time"

// Observation is a single dated value of a FRED series.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ObservationSeries is a named, strictly date-ordered quarterly series.
// Owned by the fetch layer; the analysis core treats it as read-only.
type ObservationSeries struct {
	ID           string        `json:"id"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (s *ObservationSeries) Len() int {
	return len(s.Observations)
}

// SeriesMeta describes a FRED series.
type SeriesMeta struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Units              string `json:"units"`
	Frequency          string `json:"frequency"`
	SeasonalAdjustment string `json:"seasonal_adjustment"`
	LastUpdated        string `json:"last_updated"`
}
