// Package plotter provides SVG visualization for spike train analysis.
// It renders firing-rate line plots, spike raster plots, and inter-spike
// interval histograms from plain numeric sequences; the core analysis
// packages have no dependency on it.
package plotter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SeriesKind selects how a data series is drawn.
type SeriesKind int

const (
	// KindLine connects points with a polyline (firing rate over time).
	KindLine SeriesKind = iota
	// KindTicks draws a vertical tick at each X value (spike raster).
	KindTicks
	// KindBars draws a bar from the baseline at each (X, Y) pair
	// (interval histogram).
	KindBars
)

// Series represents a single data series to plot.
type Series struct {
	X        []float64
	Y        []float64
	Label    string
	Color    string
	Kind     SeriesKind
	BarWidth float64 // data units, bars only
}

// PlotData contains metadata about the last rendered plot, usable for
// interactive overlays.
type PlotData struct {
	PlotID     string
	Margin     map[string]float64
	PlotWidth  float64
	PlotHeight float64
	Xmin       float64
	Xmax       float64
	Ymin       float64
	Ymax       float64
	Series     []Series
}

// SVGPlotter creates SVG plots with customizable styling.
type SVGPlotter struct {
	Width      float64
	Height     float64
	Margin     map[string]float64
	PlotWidth  float64
	PlotHeight float64
	Title      string
	XLabel     string
	YLabel     string
	Series     []Series
	LastPlot   *PlotData
}

var palette = []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33", "#a65628", "#f781bf"}

// NewSVGPlotter creates a new SVG plotter with the given dimensions.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	margin := map[string]float64{"top": 40, "right": 30, "bottom": 50, "left": 60}
	return &SVGPlotter{
		Width:      width,
		Height:     height,
		Margin:     margin,
		PlotWidth:  width - margin["left"] - margin["right"],
		PlotHeight: height - margin["top"] - margin["bottom"],
		XLabel:     "Time (s)",
		YLabel:     "Value",
	}
}

// SetTitle sets the plot title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// SetXLabel sets the X-axis label.
func (p *SVGPlotter) SetXLabel(s string) *SVGPlotter {
	p.XLabel = s
	return p
}

// SetYLabel sets the Y-axis label.
func (p *SVGPlotter) SetYLabel(s string) *SVGPlotter {
	p.YLabel = s
	return p
}

// AddSeries adds a line series. If color is empty, a palette color is used.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	return p.add(Series{X: x, Y: y, Label: label, Color: color, Kind: KindLine})
}

// AddTicks adds a raster series: one vertical tick per X value, all drawn
// at the given Y level.
func (p *SVGPlotter) AddTicks(x []float64, level float64, label, color string) *SVGPlotter {
	y := make([]float64, len(x))
	for i := range y {
		y[i] = level
	}
	return p.add(Series{X: x, Y: y, Label: label, Color: color, Kind: KindTicks})
}

// AddBars adds a histogram series: one bar per (X, Y) pair, where X is the
// bar's lower edge and barWidth its width in data units.
func (p *SVGPlotter) AddBars(x, y []float64, barWidth float64, label, color string) *SVGPlotter {
	return p.add(Series{X: x, Y: y, Label: label, Color: color, Kind: KindBars, BarWidth: barWidth})
}

func (p *SVGPlotter) add(s Series) *SVGPlotter {
	if s.Color == "" {
		s.Color = palette[len(p.Series)%len(palette)]
	}
	p.Series = append(p.Series, s)
	return p
}

// dataRange computes padded axis bounds over all series.
func (p *SVGPlotter) dataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)

	for _, s := range p.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymin = math.Min(ymin, s.Y[i])
			ymax = math.Max(ymax, s.Y[i])
		}
		if s.Kind == KindBars && len(s.X) > 0 {
			// Bars extend one width past the last edge and rest on zero.
			xmax = math.Max(xmax, s.X[len(s.X)-1]+s.BarWidth)
			ymin = math.Min(ymin, 0)
		}
	}

	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymin, 1) {
		ymin, ymax = 0, 1
	}
	xrange := xmax - xmin
	if xrange == 0 {
		xrange = 1
	}
	yrange := ymax - ymin
	if yrange == 0 {
		yrange = 1
	}
	return xmin - xrange*0.05, xmax + xrange*0.05, ymin - yrange*0.1, ymax + yrange*0.1
}

// Render generates the SVG string and stores metadata in LastPlot.
func (p *SVGPlotter) Render() string {
	xmin, xmax, ymin, ymax := p.dataRange()

	sx := func(x float64) float64 {
		return p.Margin["left"] + ((x-xmin)/(xmax-xmin))*p.PlotWidth
	}
	sy := func(y float64) float64 {
		return p.Margin["top"] + p.PlotHeight - ((y-ymin)/(ymax-ymin))*p.PlotHeight
	}

	plotID := "plot_" + strconv.FormatInt(int64(math.Round(1000000*math.Abs(xmin+xmax+ymin+ymax))), 10)

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" id="%s">`,
		int(p.Width), int(p.Height), plotID))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(p.Width), int(p.Height)))

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.Width/2, escape(p.Title)))
	}

	p.renderAxes(&sb, xmin, xmax, ymin, ymax, sx, sy)

	for _, s := range p.Series {
		switch s.Kind {
		case KindTicks:
			p.renderTicks(&sb, s, sx, sy)
		case KindBars:
			p.renderBars(&sb, s, sx, sy, ymin)
		default:
			p.renderLine(&sb, s, sx, sy)
		}
	}

	p.renderLegend(&sb)
	sb.WriteString(`</svg>`)

	p.LastPlot = &PlotData{
		PlotID:     plotID,
		Margin:     p.Margin,
		PlotWidth:  p.PlotWidth,
		PlotHeight: p.PlotHeight,
		Xmin:       xmin,
		Xmax:       xmax,
		Ymin:       ymin,
		Ymax:       ymax,
		Series:     p.Series,
	}
	return sb.String()
}

func (p *SVGPlotter) renderAxes(sb *strings.Builder, xmin, xmax, ymin, ymax float64, sx, sy func(float64) float64) {
	left := p.Margin["left"]
	top := p.Margin["top"]
	bottom := top + p.PlotHeight
	right := left + p.PlotWidth

	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		left, top, left, bottom))
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		left, bottom, right, bottom))

	sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
		left+p.PlotWidth/2, p.Height-10, escape(p.XLabel)))
	sb.WriteString(fmt.Sprintf(`<text x="15" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
		top+p.PlotHeight/2, top+p.PlotHeight/2, escape(p.YLabel)))

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/ticks
		px := sx(x)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			px, bottom, px, bottom+5))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">%.2f</text>`,
			px, bottom+20, x))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			px, top, px, bottom))
	}
	for i := 0; i <= ticks; i++ {
		y := ymin + (ymax-ymin)*float64(i)/ticks
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			left-5, py, left, py))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			left-10, py+4, y))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			left, py, right, py))
	}
}

func (p *SVGPlotter) renderLine(sb *strings.Builder, s Series, sx, sy func(float64) float64) {
	if len(s.X) == 0 {
		return
	}
	path := strings.Builder{}
	for i := range s.X {
		if i == 0 {
			path.WriteString(fmt.Sprintf("M%f,%f", sx(s.X[i]), sy(s.Y[i])))
		} else {
			path.WriteString(fmt.Sprintf(" L%f,%f", sx(s.X[i]), sy(s.Y[i])))
		}
	}
	sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`,
		path.String(), s.Color))
}

func (p *SVGPlotter) renderTicks(sb *strings.Builder, s Series, sx, sy func(float64) float64) {
	const halfTick = 8.0
	for i := range s.X {
		px := sx(s.X[i])
		py := sy(s.Y[i])
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="1.5"/>`,
			px, py-halfTick, px, py+halfTick, s.Color))
	}
}

func (p *SVGPlotter) renderBars(sb *strings.Builder, s Series, sx, sy func(float64) float64, ymin float64) {
	base := math.Max(0, ymin)
	for i := range s.X {
		x0 := sx(s.X[i])
		x1 := sx(s.X[i] + s.BarWidth)
		y0 := sy(s.Y[i])
		yb := sy(base)
		if y0 > yb {
			y0, yb = yb, y0
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%f" y="%f" width="%f" height="%f" fill="%s" fill-opacity="0.7" stroke="#333" stroke-width="0.5"/>`,
			x0, y0, math.Max(x1-x0-1, 1), yb-y0, s.Color))
	}
}

func (p *SVGPlotter) renderLegend(sb *strings.Builder) {
	hasLabel := false
	for _, s := range p.Series {
		if s.Label != "" {
			hasLabel = true
			break
		}
	}
	if !hasLabel {
		return
	}
	legendY := p.Margin["top"] + 10
	for _, s := range p.Series {
		if s.Label == "" {
			continue
		}
		x1 := p.Width - p.Margin["right"] - 50
		x2 := p.Width - p.Margin["right"] - 30
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x2, legendY, s.Color))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="10">%s</text>`,
			x2+5, legendY+4, escape(s.Label)))
		legendY += 20
	}
}

// escape makes a string safe for embedding in SVG text nodes.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
