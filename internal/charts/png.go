package charts

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const pngWidth = 960

// ErrUnsupportedExport marks spec kinds the PNG backend cannot draw.
type ErrUnsupportedExport struct {
	Kind Kind
}

func (e *ErrUnsupportedExport) Error() string {
	return fmt.Sprintf("png export does not support %s charts", e.Kind)
}

// RenderPNG draws a spec as a PNG image. Line, scatter, bar, histogram
// and donut kinds are supported; box and heatmap stay JSON-only.
func RenderPNG(s *Spec, w io.Writer) error {
	switch s.Kind {
	case KindLine, KindScatter:
		return renderXY(s, w)
	case KindBar, KindHistogram:
		return renderBars(s, w)
	case KindDonut:
		return renderDonut(s, w)
	default:
		return &ErrUnsupportedExport{Kind: s.Kind}
	}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func renderXY(s *Spec, w io.Writer) error {
	var series []chart.Series
	var ticks []chart.Tick
	for si, src := range s.Series {
		if len(src.Points) == 0 {
			continue
		}
		xs := make([]float64, len(src.Points))
		ys := make([]float64, len(src.Points))
		labeled := src.Points[0].Label != ""
		for i, p := range src.Points {
			if labeled {
				xs[i] = float64(i)
			} else {
				xs[i] = p.X
			}
			ys[i] = p.Y
		}
		color := src.Color
		if color == "" {
			color = paletteColor(si)
		}
		style := chart.Style{StrokeColor: hexColor(color), StrokeWidth: 2}
		if s.Kind == KindScatter {
			style = chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    hexColor(color),
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    src.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
		if labeled && ticks == nil {
			ticks = labelTicks(src.Points)
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("render %s: no data", s.Kind)
	}

	graph := chart.Chart{
		Title:  s.Title,
		Width:  pngWidth,
		Height: s.Layout.Height,
		XAxis:  chart.XAxis{Name: s.XAxis.Title, Ticks: ticks},
		YAxis:  chart.YAxis{Name: s.YAxis.Title},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

// labelTicks thins categorical labels to at most eight ticks so long
// axes stay readable.
func labelTicks(points []Point) []chart.Tick {
	step := 1
	if len(points) > 8 {
		step = (len(points) + 7) / 8
	}
	ticks := make([]chart.Tick, 0, 9)
	for i := 0; i < len(points); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: points[i].Label})
	}
	return ticks
}

func renderBars(s *Spec, w io.Writer) error {
	if len(s.Series) == 0 || len(s.Series[0].Points) == 0 {
		return fmt.Errorf("render %s: no data", s.Kind)
	}
	points := s.Series[0].Points

	labelStep := 1
	if s.Kind == KindHistogram && len(points) > 10 {
		labelStep = (len(points) + 9) / 10
	}
	bars := make([]chart.Value, 0, len(points))
	for i, p := range points {
		label := p.Label
		if labelStep > 1 && i%labelStep != 0 {
			label = ""
		}
		bars = append(bars, chart.Value{Label: label, Value: p.Y})
	}

	barWidth := (pngWidth - 100) / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 2 {
		barWidth = 2
	}

	graph := chart.BarChart{
		Title:    s.Title,
		Width:    pngWidth,
		Height:   s.Layout.Height,
		BarWidth: barWidth,
		Bars:     bars,
	}
	return graph.Render(chart.PNG, w)
}

func renderDonut(s *Spec, w io.Writer) error {
	if len(s.Series) == 0 || len(s.Series[0].Points) == 0 {
		return fmt.Errorf("render %s: no data", s.Kind)
	}
	values := make([]chart.Value, 0, len(s.Series[0].Points))
	for _, p := range s.Series[0].Points {
		values = append(values, chart.Value{Label: p.Label, Value: p.Y})
	}
	graph := chart.DonutChart{
		Title:  s.Title,
		Width:  s.Layout.Height,
		Height: s.Layout.Height,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}
