package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/yee1d/internal/viz"
	"gonum.org/v1/gonum/floats"
)

// SVGOptions sizes the image and picks the trace colors.
type SVGOptions struct {
	Width, Height int
	Theme         viz.Theme
	Title         string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 300, Theme: viz.ThemePhosphor}
}

// FieldsToSVG draws E over x and eta*H over the half-step positions as
// two polylines sharing one vertical scale. x and e must have equal
// length and h one entry fewer.
func FieldsToSVG(x, e, h []float64, eta float64, o SVGOptions) (string, error) {
	if len(x) < 2 || len(e) != len(x) || len(h) != len(x)-1 {
		return "", fmt.Errorf("export: field sizes x=%d e=%d h=%d", len(x), len(e), len(h))
	}
	if o.Width <= 0 || o.Height <= 0 {
		return "", fmt.Errorf("export: invalid image size %dx%d", o.Width, o.Height)
	}

	xh := make([]float64, len(h))
	scaled := make([]float64, len(h))
	for i := range h {
		xh[i] = 0.5 * (x[i] + x[i+1])
		scaled[i] = eta * h[i]
	}

	lo := math.Min(floats.Min(e), floats.Min(scaled))
	hi := math.Max(floats.Max(e), floats.Max(scaled))
	if hi-lo == 0 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.1
	lo, hi = lo-pad, hi+pad

	x0, x1 := x[0], x[len(x)-1]
	w, ht := float64(o.Width), float64(o.Height)
	project := func(px, py float64) (float64, float64) {
		return (px - x0) / (x1 - x0) * w, ht - (py-lo)/(hi-lo)*ht
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, o.Width, o.Height, o.Width, o.Height))

	// zero line
	_, zy := project(x0, 0)
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="0.5"/>
`, zy, o.Width, zy, o.Theme.Muted))

	writePath(&sb, x, e, string(o.Theme.E), project)
	writePath(&sb, xh, scaled, string(o.Theme.H), project)

	if o.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">%s</text>
`, o.Theme.Text, escape(o.Title)))
	}
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func writePath(sb *strings.Builder, xs, ys []float64, stroke string, project func(float64, float64) (float64, float64)) {
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
	for i := range xs {
		px, py := project(xs[i], ys[i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}
	sb.WriteString("\"/>\n")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }
