package models

import "time"

// SeriesPoint is one time-series sample of the irradiance columns.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	GHI       Num       `json:"ghi"`
	DNI       Num       `json:"dni"`
	DHI       Num       `json:"dhi"`
}

// WindPoint pairs a direction (radians) with a speed.
type WindPoint struct {
	Direction float64 `json:"direction_rad"`
	Speed     float64 `json:"speed"`
}

// Pair is an (x, y) scatter point.
type Pair struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bubble is a scatter point with a size and a hue dimension.
type Bubble struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Hue  Num     `json:"hue"`
}

// Histogram holds bin counts; Edges has one more element than Counts.
type Histogram struct {
	Column Column    `json:"column"`
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// Aggregates are the plot-ready derivations of a cleaned dataset.
type Aggregates struct {
	TimeSeries []SeriesPoint `json:"time_series"`
	Wind       []WindPoint   `json:"wind"`
	RHvsTamb   []Pair        `json:"rh_vs_tamb"`
	RHvsGHI    []Pair        `json:"rh_vs_ghi"`
	Histograms []Histogram   `json:"histograms"`
	Bubbles    []Bubble      `json:"bubbles"`
}
