package plotter

import (
	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// RasterFigure renders a spike raster plot for a single train.
func RasterFigure(train spiketrain.Train, width, height float64, title string) (string, *PlotData) {
	p := NewSVGPlotter(width, height).
		SetTitle(title).
		SetYLabel("Neuron")
	p.AddTicks(train, 1.0, "", "#333333")
	svg := p.Render()
	return svg, p.LastPlot
}

// RateFigure renders a firing-rate line plot with a mean-rate overlay.
func RateFigure(series *rate.Series, width, height float64, title string) (string, *PlotData) {
	p := NewSVGPlotter(width, height).
		SetTitle(title).
		SetYLabel("Firing rate (Hz)")

	centers := series.Centers()
	p.AddSeries(centers, series.Rates(), "rate", "#377eb8")

	mean := series.MeanRate()
	meanLine := make([]float64, len(centers))
	for i := range meanLine {
		meanLine[i] = mean
	}
	p.AddSeries(centers, meanLine, "mean", "#e41a1c")

	svg := p.Render()
	return svg, p.LastPlot
}

// ISIFigure renders an inter-spike interval histogram.
// nbins controls the histogram resolution; 30 is a reasonable default.
func ISIFigure(intervals []float64, nbins int, width, height float64, title string) (string, *PlotData, error) {
	edges, counts, err := isi.Histogram(intervals, nbins)
	if err != nil {
		return "", nil, err
	}

	y := make([]float64, len(counts))
	for i, c := range counts {
		y[i] = float64(c)
	}
	barWidth := 0.0
	if len(edges) > 1 {
		barWidth = edges[1] - edges[0]
	}

	p := NewSVGPlotter(width, height).
		SetTitle(title).
		SetXLabel("Inter-spike interval (s)").
		SetYLabel("Count")
	p.AddBars(edges, y, barWidth, "", "#ff7f00")

	svg := p.Render()
	return svg, p.LastPlot, nil
}
