package charts

// Every chart shares one cosmetic contract: same template, margins,
// legend placement, hover behavior, and font, with per-kind heights.
// Builders construct data payloads and call applyLayout last, so no
// chart can drift from the house style.

const (
	templateName = "plotly_white"

	heightDefault = 360
	heightDonut   = 380
	heightTall    = 420

	fontSize = 12
	barGap   = 0.15
)

// palette is the categorical color cycle, assigned to series in order.
var palette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#EC4899", "#14B8A6", "#F97316", "#6366F1", "#84CC16",
}

func paletteColor(i int) string {
	return palette[i%len(palette)]
}

// Margin is the plot margin in pixels.
type Margin struct {
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
	L int `json:"l"`
}

// Legend pins the legend horizontally above the plot area, right-aligned.
type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	XAnchor     string  `json:"xanchor"`
	Y           float64 `json:"y"`
	YAnchor     string  `json:"yanchor"`
}

// Layout is the shared cosmetic block attached to every Spec.
type Layout struct {
	Template   string  `json:"template"`
	Height     int     `json:"height"`
	Margin     Margin  `json:"margin"`
	Legend     Legend  `json:"legend"`
	ShowLegend bool    `json:"show_legend"`
	HoverMode  string  `json:"hover_mode"`
	FontSize   int     `json:"font_size"`
	BarGap     float64 `json:"bar_gap,omitempty"`
}

func heightFor(kind Kind) int {
	switch kind {
	case KindDonut:
		return heightDonut
	case KindBox, KindHeatmap:
		return heightTall
	default:
		return heightDefault
	}
}

// applyLayout stamps the shared contract onto a spec. The legend shows
// only when more than one series competes for color.
func applyLayout(s *Spec) {
	s.Layout = Layout{
		Template: templateName,
		Height:   heightFor(s.Kind),
		Margin:   Margin{T: 60, R: 16, B: 16, L: 16},
		Legend: Legend{
			Orientation: "h",
			X:           1,
			XAnchor:     "right",
			Y:           1.02,
			YAnchor:     "bottom",
		},
		ShowLegend: len(s.Series) > 1 || s.Kind == KindDonut,
		HoverMode:  "closest",
		FontSize:   fontSize,
	}
	if s.Kind == KindBar || s.Kind == KindHistogram {
		s.Layout.BarGap = barGap
	}
}
