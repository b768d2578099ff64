package plotter

import (
	"strings"
	"testing"

	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func TestNewSVGPlotter(t *testing.T) {
	p := NewSVGPlotter(800, 600)

	if p.Width != 800 {
		t.Errorf("Expected width 800, got %f", p.Width)
	}
	if p.Height != 600 {
		t.Errorf("Expected height 600, got %f", p.Height)
	}
	if p.XLabel != "Time (s)" {
		t.Errorf("Expected default XLabel 'Time (s)', got '%s'", p.XLabel)
	}
	if p.Series != nil {
		t.Error("Expected Series to be nil initially")
	}
}

func TestSetTitleChaining(t *testing.T) {
	p := NewSVGPlotter(800, 600)
	result := p.SetTitle("Spike Analysis")
	if p.Title != "Spike Analysis" {
		t.Errorf("Expected title 'Spike Analysis', got '%s'", p.Title)
	}
	if result != p {
		t.Error("SetTitle should return the plotter for chaining")
	}
}

func TestAddSeriesDefaultColor(t *testing.T) {
	p := NewSVGPlotter(800, 600)
	p.AddSeries([]float64{0, 1}, []float64{1, 2}, "a", "")
	p.AddSeries([]float64{0, 1}, []float64{2, 3}, "b", "")

	if len(p.Series) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(p.Series))
	}
	if p.Series[0].Color == "" || p.Series[1].Color == "" {
		t.Error("Empty colors should be replaced with palette colors")
	}
	if p.Series[0].Color == p.Series[1].Color {
		t.Error("Consecutive series should get distinct palette colors")
	}
}

func TestRenderLine(t *testing.T) {
	p := NewSVGPlotter(400, 300)
	p.AddSeries([]float64{0, 0.5, 1}, []float64{10, 20, 15}, "rate", "#377eb8")
	svg := p.Render()

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("Render should produce a complete SVG document")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("Line series should render a path element")
	}
	if p.LastPlot == nil {
		t.Fatal("Render should populate LastPlot")
	}
	if p.LastPlot.Xmin >= p.LastPlot.Xmax {
		t.Errorf("LastPlot range invalid: [%f, %f]", p.LastPlot.Xmin, p.LastPlot.Xmax)
	}
}

func TestRenderTicks(t *testing.T) {
	p := NewSVGPlotter(400, 300)
	p.AddTicks([]float64{0.1, 0.2, 0.7}, 1.0, "spikes", "#333")
	svg := p.Render()

	// Three raster ticks plus axes and grid lines.
	if strings.Count(svg, "<line") < 3 {
		t.Error("Tick series should render one line per spike")
	}
}

func TestRenderBars(t *testing.T) {
	p := NewSVGPlotter(400, 300)
	p.AddBars([]float64{0, 0.1, 0.2}, []float64{5, 3, 1}, 0.1, "isi", "#ff7f00")
	svg := p.Render()

	// Three histogram bars plus the background rect.
	if strings.Count(svg, "<rect") < 4 {
		t.Errorf("Bar series should render one rect per bin, got %d rects", strings.Count(svg, "<rect"))
	}
}

func TestRenderEmpty(t *testing.T) {
	p := NewSVGPlotter(400, 300)
	svg := p.Render()
	if !strings.Contains(svg, "<svg") {
		t.Error("Empty plot should still render a valid SVG skeleton")
	}
}

func TestEscape(t *testing.T) {
	p := NewSVGPlotter(400, 300)
	p.SetTitle("a < b & c")
	svg := p.Render()
	if strings.Contains(svg, "a < b & c") {
		t.Error("Title should be XML-escaped")
	}
	if !strings.Contains(svg, "a &lt; b &amp; c") {
		t.Error("Escaped title missing from output")
	}
}

func TestRasterFigure(t *testing.T) {
	train := spiketrain.Train{0.1, 0.2, 0.3}
	svg, data := RasterFigure(train, 800, 200, "Raster")
	if !strings.Contains(svg, "Raster") {
		t.Error("Title missing from raster figure")
	}
	if data == nil || len(data.Series) != 1 {
		t.Error("Raster figure should carry one tick series")
	}
}

func TestRateFigure(t *testing.T) {
	series, err := rate.Estimate(spiketrain.Train{0.05, 0.15, 0.17}, 0.2, 0.1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	svg, data := RateFigure(series, 800, 400, "Rate")
	if !strings.Contains(svg, "<path") {
		t.Error("Rate figure should render line paths")
	}
	if len(data.Series) != 2 {
		t.Errorf("Rate figure should carry rate and mean series, got %d", len(data.Series))
	}
}

func TestISIFigure(t *testing.T) {
	intervals := []float64{0.1, 0.12, 0.3, 0.05, 0.2}
	svg, data, err := ISIFigure(intervals, 5, 800, 400, "ISI")
	if err != nil {
		t.Fatalf("ISIFigure: %v", err)
	}
	if !strings.Contains(svg, "<rect") {
		t.Error("ISI figure should render histogram bars")
	}
	if data == nil {
		t.Error("ISI figure should return plot metadata")
	}
}

func TestISIFigureNoData(t *testing.T) {
	if _, _, err := ISIFigure(nil, 5, 800, 400, ""); err == nil {
		t.Error("ISIFigure with no intervals should fail")
	}
}
