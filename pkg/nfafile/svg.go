package nfafile

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width       int    // canvas width in pixels
	Height      int    // canvas height in pixels
	Title       string // diagram title
	FontSize    int    // font size for state labels
	LabelSize   int    // font size for transition labels (0 = FontSize - 2)
	StateRadius int    // preferred radius of state circles
	Padding     int    // padding around edges
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      600,
		FontSize:    14,
		StateRadius: 30,
		Padding:     50,
	}
}

func (o *SVGOptions) fill() {
	d := DefaultSVGOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.FontSize == 0 {
		o.FontSize = d.FontSize
	}
	if o.LabelSize == 0 {
		o.LabelSize = o.FontSize - 2
	}
	if o.StateRadius == 0 {
		o.StateRadius = d.StateRadius
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
}

// GenerateSVG renders a graph to SVG using LayeredLayout.
func GenerateSVG(g *Graph, opts SVGOptions) string {
	opts.fill()

	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = 35
	}
	pad := float64(opts.Padding)
	l := LayeredLayout(g, pad, pad+titleSpace,
		float64(opts.Width)-2*pad, float64(opts.Height)-2*pad-titleSpace,
		float64(opts.StateRadius))
	r := l.Radius

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
  <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
    <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
  </marker>
</defs>
<style>
  .state { fill: white; stroke: #333; stroke-width: 2; }
  .state-initial { fill: #e8f5e9; stroke: #2e7d32; stroke-width: 2; }
  .state-accepting { fill: #fff3e0; stroke: #e65100; stroke-width: 2; }
  .state-both { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .state-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: middle; }
  .transition { fill: none; stroke: #333; stroke-width: 1.5; marker-end: url(#arrowhead); }
  .trans-label { font-family: sans-serif; font-size: %dpx; fill: #333; text-anchor: middle; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.FontSize, opts.LabelSize, opts.FontSize+4))

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>
`, opts.Width, opts.Height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="25" class="title">%s</text>
`, opts.Width/2, html.EscapeString(opts.Title)))
	}

	// Transitions first, under states.
	pairs := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		pairs[[2]string{e.From, e.To}] = true
	}
	for _, e := range g.Edges {
		from, to := l.Pos[e.From], l.Pos[e.To]
		switch {
		case e.From == e.To:
			svgSelfLoop(&sb, from, r, e.Label)
		case pairs[[2]string{e.To, e.From}]:
			// Bend both directions apart.
			svgCurve(&sb, from, to, r, 20, e.Label)
		case math.Abs(from.Y-to.Y) < 1 && to.X < from.X:
			svgCurve(&sb, from, to, r, 40, e.Label)
		default:
			svgLine(&sb, from, to, r, e.Label)
		}
	}

	if p, ok := l.Pos[g.Initial()]; ok {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="transition"/>
`, p.X-r-30, p.Y, p.X-r-2, p.Y))
	}

	for _, n := range g.Nodes {
		p := l.Pos[n.ID]
		class := "state"
		switch {
		case n.Initial && n.Final:
			class = "state-both"
		case n.Initial:
			class = "state-initial"
		case n.Final:
			class = "state-accepting"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s"/>
`, p.X, p.Y, r, class))
		if n.Final {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="%s" fill="none"/>
`, p.X, p.Y, r-4, class))
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="state-label">%s</text>
`, p.X, p.Y, html.EscapeString(n.Label)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func svgLine(sb *strings.Builder, from, to Point, r float64, label string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	sx, sy := from.X+nx*r, from.Y+ny*r
	ex, ey := to.X-nx*(r+2), to.Y-ny*(r+2)

	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="transition"/>
`, sx, sy, ex, ey))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="trans-label">%s</text>
`, (sx+ex)/2-ny*12, (sy+ey)/2+nx*12, html.EscapeString(label)))
}

// svgCurve draws a quadratic arc bent bend pixels to the left of travel.
func svgCurve(sb *strings.Builder, from, to Point, r, bend float64, label string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	px, py := -ny*bend, nx*bend
	cx, cy := (from.X+to.X)/2+px, (from.Y+to.Y)/2+py

	sx, sy := from.X+nx*r, from.Y+ny*r
	ex, ey := to.X-nx*(r+2), to.Y-ny*(r+2)

	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f" class="transition"/>
`, sx, sy, cx, cy, ex, ey))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="trans-label">%s</text>
`, cx, cy-5, html.EscapeString(label)))
}

func svgSelfLoop(sb *strings.Builder, p Point, r float64, label string) {
	loopR := r * 0.6
	sx, sy := p.X-r*0.7, p.Y-r*0.7
	ex, ey := p.X+r*0.7, p.Y-r*0.7

	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f" class="transition"/>
`, sx, sy, p.X-loopR*1.5, p.Y-r-loopR*2, p.X+loopR*1.5, p.Y-r-loopR*2, ex, ey))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="trans-label">%s</text>
`, p.X, p.Y-r-loopR*2-8, html.EscapeString(label)))
}
