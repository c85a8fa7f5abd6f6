package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// PlotOptions sizes an asciigraph chart.
type PlotOptions struct {
	Width, Height int
	Caption       string
	Theme         Theme
}

func (o PlotOptions) graphOptions() []asciigraph.Option {
	opts := []asciigraph.Option{asciigraph.Height(o.Height), asciigraph.Precision(4)}
	if o.Width > 0 {
		opts = append(opts, asciigraph.Width(o.Width))
	}
	if o.Caption != "" {
		opts = append(opts, asciigraph.Caption(o.Caption))
	}
	return opts
}

// PlotField charts one field.
func PlotField(values []float64, o PlotOptions) string {
	if len(values) == 0 {
		return ""
	}
	opts := append(o.graphOptions(), asciigraph.SeriesColors(o.Theme.EPlot))
	return asciigraph.Plot(values, opts...)
}

// PlotFields overlays E and eta*H, which share units. H has one entry
// fewer than E; it is padded with its last value so both series line up.
func PlotFields(e, h []float64, eta float64, o PlotOptions) string {
	if len(e) == 0 {
		return ""
	}
	scaled := make([]float64, len(e))
	for i := range scaled {
		j := min(i, len(h)-1)
		if j >= 0 {
			scaled[i] = eta * h[j]
		}
	}
	opts := append(o.graphOptions(), asciigraph.SeriesColors(o.Theme.EPlot, o.Theme.HPlot))
	return asciigraph.PlotMany([][]float64{e, scaled}, opts...)
}

// Impedance is sqrt(mu/eps), the ratio of E to H in a travelling wave.
func Impedance(eps, mu float64) float64 {
	return math.Sqrt(mu / eps)
}

// FieldCaption labels a snapshot chart.
func FieldCaption(field string, index int, t float64) string {
	return fmt.Sprintf("%s  snapshot %d  t=%.4es", field, index, t)
}
