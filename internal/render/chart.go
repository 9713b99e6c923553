// Package render turns selected series and tables into output for people:
// chart images, wide CSV, and plain text listings.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/roach88/covidtesting/internal/config"
	"github.com/roach88/covidtesting/internal/dataset"
)

// ErrNothingToRender is returned when no series has a point.
var ErrNothingToRender = errors.New("no data points to render")

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SVG
	}
	return PNG
}

// ChartOptions configures Chart.
type ChartOptions struct {
	config.Chart
	Format Format
}

// Chart draws one line-and-marker trace per series, in order, with a legend.
// Series without points are left out.
func Chart(series []dataset.Series, opts ChartOptions, w io.Writer) error {
	var (
		traces      []chart.Series
		first, last time.Time
	)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		if s.Empty() {
			continue
		}
		xs := make([]time.Time, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j] = p.Date
			ys[j] = p.Value
			if first.IsZero() || p.Date.Before(first) {
				first = p.Date
			}
			if p.Date.After(last) {
				last = p.Date
			}
			minY = math.Min(minY, p.Value)
			maxY = math.Max(maxY, p.Value)
		}
		color := chart.GetDefaultColor(i)
		traces = append(traces, chart.TimeSeries{
			Name: s.State,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	if len(traces) == 0 {
		return ErrNothingToRender
	}

	xAxis := chart.XAxis{Name: opts.XAxis, ValueFormatter: chart.TimeDateValueFormatter}
	if !first.Before(last) {
		// Single date: widen by half a day each side.
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-12 * time.Hour)),
			Max: chart.TimeToFloat64(last.Add(12 * time.Hour)),
		}
	}

	yAxis := chart.YAxis{Name: opts.YAxis}
	if minY == maxY {
		lo, hi := minY-1, maxY+1
		if minY >= 0 && lo < 0 {
			lo = 0
		}
		yAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     traces,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if opts.Format == SVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
