// Package chart turns expense data into a renderable series and hands it to
// a replaceable rendering sink.
package chart

import (
	"budget/internal/aggregate"
	"budget/internal/core"
)

// EmptyLabel is the single label shown when there are no expenses.
const EmptyLabel = "No Expenses Yet"

// DefaultPalette is the fixed color set passed to renderers.
var DefaultPalette = []string{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#C9CBCF",
	"#7CB342",
}

// Series holds index-aligned labels and values.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Empty reports whether s is the no-expenses placeholder.
func (s Series) Empty() bool {
	return len(s.Labels) == 1 && s.Labels[0] == EmptyLabel
}

// Project maps the expense breakdown to a series. With no expenses it yields a
// single placeholder slice of value 1 so pie-style renderers draw a full circle.
func Project(expenses []core.Entry) Series {
	breakdown := aggregate.CategoryBreakdown(expenses)
	if len(breakdown) == 0 {
		return Series{Labels: []string{EmptyLabel}, Values: []float64{1}}
	}

	s := Series{
		Labels: make([]string, len(breakdown)),
		Values: make([]float64, len(breakdown)),
	}
	for i, c := range breakdown {
		s.Labels[i] = c.Name
		s.Values[i] = c.Amount.InexactFloat64()
	}
	return s
}

// Colors returns n colors, cycling palette. An empty palette uses DefaultPalette.
func Colors(n int, palette []string) []string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
