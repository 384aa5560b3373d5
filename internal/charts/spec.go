// Package charts turns aggregation results into renderer-agnostic chart
// specifications. A Spec serializes to JSON for the dashboard page and
// feeds the PNG exporter; builders never mutate the table they read.
package charts

import (
	"retail-dashboard/internal/analytics"
)

// Kind selects the renderer for a Spec.
type Kind string

const (
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindDonut     Kind = "donut"
	KindScatter   Kind = "scatter"
	KindBox       Kind = "box"
	KindHeatmap   Kind = "heatmap"
)

// Point is one datum. Categorical kinds set Label and Y; scatter sets X
// and Y with optional hover Text.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y"`
	Text  string  `json:"text,omitempty"`
}

// Series is one named run of points with an assigned palette color.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
	Color  string  `json:"color,omitempty"`
}

// Axis describes one axis. Categories carries the explicit category
// order for ranked kinds; Type is "log" when the axis is log-scaled.
type Axis struct {
	Title      string   `json:"title"`
	Type       string   `json:"type,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Marker is a labeled reference line drawn across the plot at Value on
// the x axis (quartile overlays on distributions).
type Marker struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Matrix is the payload of a heatmap: a symmetric grid with a fixed
// color domain and the cell values printed in place.
type Matrix struct {
	Columns    []string    `json:"columns"`
	Values     [][]float64 `json:"values"`
	ZMin       float64     `json:"z_min"`
	ZMax       float64     `json:"z_max"`
	Palette    string      `json:"palette"`
	ShowValues bool        `json:"show_values"`
}

// BoxSeries is the precomputed five-number payload of one box.
type BoxSeries struct {
	Name       string  `json:"name"`
	WhiskerLow float64 `json:"whisker_low"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	WhiskerHi  float64 `json:"whisker_high"`
	Count      int     `json:"count"`
	Color      string  `json:"color,omitempty"`
}

// Spec is a complete chart: kind, data payload, and the shared cosmetic
// layout. Exactly one of Series, Boxes, or Matrix is populated depending
// on the kind.
type Spec struct {
	Kind        Kind        `json:"kind"`
	Title       string      `json:"title"`
	XAxis       Axis        `json:"x_axis"`
	YAxis       Axis        `json:"y_axis"`
	Series      []Series    `json:"series,omitempty"`
	Boxes       []BoxSeries `json:"boxes,omitempty"`
	Matrix      *Matrix     `json:"matrix,omitempty"`
	Markers     []Marker    `json:"markers,omitempty"`
	Hole        float64     `json:"hole,omitempty"`
	Orientation string      `json:"orientation,omitempty"`
	Note        string      `json:"note,omitempty"`
	Layout      Layout      `json:"layout"`
}

// missingLabel stands in for an empty group key on categorical axes so
// the partition stays visible.
const missingLabel = "(missing)"

func displayKey(key string) string {
	if key == "" {
		return missingLabel
	}
	return key
}

func seriesFromGroups(name string, groups []analytics.GroupSum, color string) Series {
	s := Series{Name: name, Color: color, Points: make([]Point, 0, len(groups))}
	for _, g := range groups {
		s.Points = append(s.Points, Point{Label: displayKey(g.Key), Y: g.Total})
	}
	return s
}
