// PNG rendering for automaton diagrams.
// Mirrors the SVG renderer output using Go's image packages.

package nfafile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	StateRadius int
	FontSize    int
	Title       string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     50,
		StateRadius: 30,
		FontSize:    14,
	}
}

// supersample is the render scale before downsampling.
const supersample = 4

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorBlack      = color.RGBA{51, 51, 51, 255}    // #333
	colorInitial    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorInitialBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorAccepting  = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorAcceptBdr  = color.RGBA{230, 81, 0, 255}    // #e65100
	colorBoth       = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorBothBdr    = color.RGBA{21, 101, 192, 255}  // #1565c0
)

type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	titleFace font.Face
}

func newRenderContext(img *image.RGBA, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * supersample),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	titleFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64((fontSize + 4) * supersample),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	return &renderContext{
		img:       img,
		scale:     supersample,
		lineWidth: 2 * supersample,
		face:      face,
		titleFace: titleFace,
	}, nil
}

// RenderPNG renders a graph to PNG with 4x supersampling.
func RenderPNG(g *Graph, w io.Writer, opts PNGOptions) error {
	d := DefaultPNGOptions()
	if opts.Width == 0 {
		opts.Width = d.Width
	}
	if opts.Height == 0 {
		opts.Height = d.Height
	}
	if opts.Padding == 0 {
		opts.Padding = d.Padding
	}
	if opts.StateRadius == 0 {
		opts.StateRadius = d.StateRadius
	}
	if opts.FontSize == 0 {
		opts.FontSize = d.FontSize
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*supersample, opts.Height*supersample))
	ctx, err := newRenderContext(large, opts.FontSize)
	if err != nil {
		return err
	}
	ctx.render(g, opts)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, final)
}

func (ctx *renderContext) render(g *Graph, opts PNGOptions) {
	s := ctx.scale
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = 35
		drawText(ctx, ctx.titleFace, opts.Width*supersample/2, int(25*s), opts.Title, colorBlack)
	}

	pad := float64(opts.Padding) * s
	l := LayeredLayout(g, pad, pad+titleSpace*s,
		float64(opts.Width)*s-2*pad, float64(opts.Height)*s-2*pad-titleSpace*s,
		float64(opts.StateRadius)*s)
	r := l.Radius

	pairs := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		pairs[[2]string{e.From, e.To}] = true
	}
	for _, e := range g.Edges {
		from, to := l.Pos[e.From], l.Pos[e.To]
		switch {
		case e.From == e.To:
			ctx.selfLoop(from, r, e.Label)
		case pairs[[2]string{e.To, e.From}]:
			ctx.curve(from, to, r, 20*s, e.Label)
		case math.Abs(from.Y-to.Y) < 1 && to.X < from.X:
			ctx.curve(from, to, r, 40*s, e.Label)
		default:
			ctx.curve(from, to, r, 0, e.Label)
		}
	}

	if p, ok := l.Pos[g.Initial()]; ok {
		drawArrow(ctx, p.X-r-30*s, p.Y, p.X-r-2*s, p.Y, p.X-r-30*s, p.Y, colorBlack)
	}

	for _, n := range g.Nodes {
		p := l.Pos[n.ID]
		fill, stroke := colorWhite, colorBlack
		switch {
		case n.Initial && n.Final:
			fill, stroke = colorBoth, colorBothBdr
		case n.Initial:
			fill, stroke = colorInitial, colorInitialBdr
		case n.Final:
			fill, stroke = colorAccepting, colorAcceptBdr
		}
		drawCircle(ctx, p.X, p.Y, r, fill, stroke)
		if n.Final {
			drawCircle(ctx, p.X, p.Y, r-4*s, color.Transparent, stroke)
		}
		drawText(ctx, ctx.face, int(p.X), int(p.Y), n.Label, colorBlack)
	}
}

// curve draws an arc bent bend pixels left of travel; zero is straight.
func (ctx *renderContext) curve(from, to Point, r, bend float64, label string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	cx, cy := (from.X+to.X)/2-ny*bend, (from.Y+to.Y)/2+nx*bend

	sx, sy := from.X+nx*r, from.Y+ny*r
	ex, ey := to.X-nx*(r+2*ctx.scale), to.Y-ny*(r+2*ctx.scale)
	drawArrow(ctx, sx, sy, ex, ey, cx, cy, colorBlack)

	lx, ly := cx-ny*12*ctx.scale, cy+nx*12*ctx.scale
	drawText(ctx, ctx.face, int(lx), int(ly), label, colorBlack)
}

func (ctx *renderContext) selfLoop(p Point, r float64, label string) {
	loopR := r * 0.6
	sx, sy := p.X-r*0.7, p.Y-r*0.7
	ex, ey := p.X+r*0.7, p.Y-r*0.7
	cy := p.Y - r - loopR*2

	const steps = 100.0
	px, py := sx, sy
	for i := 1.0; i <= steps; i++ {
		t := i / steps
		u := 1 - t
		x := u*u*u*sx + 3*u*u*t*(p.X-loopR*1.5) + 3*u*t*t*(p.X+loopR*1.5) + t*t*t*ex
		y := u*u*u*sy + 3*u*u*t*cy + 3*u*t*t*cy + t*t*t*ey
		drawLine(ctx, px, py, x, y, colorBlack)
		px, py = x, y
	}
	drawText(ctx, ctx.face, int(p.X), int(cy-8*ctx.scale), label, colorBlack)
}

// drawCircle draws a circle outline and optional fill.
func drawCircle(ctx *renderContext, cx, cy, r float64, fill, stroke color.Color) {
	img := ctx.img
	if fill != color.Transparent {
		for dy := -r; dy <= r; dy++ {
			xExtent := math.Sqrt(r*r - dy*dy)
			for dx := -xExtent; dx <= xExtent; dx++ {
				img.Set(int(cx+dx), int(cy+dy), fill)
			}
		}
	}
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -ctx.lineWidth / 2; t <= ctx.lineWidth/2; t += 0.5 {
			img.Set(int(cx+nx*(r+t)), int(cy+ny*(r+t)), stroke)
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	half := ctx.lineWidth / 2
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				ctx.img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}
	perpX, perpY := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px, py := x1+dx*t, y1+dy*t
		for off := -half; off <= half; off += 0.5 {
			ctx.img.Set(int(px+perpX*off), int(py+perpY*off), c)
		}
	}
}

// drawArrow draws a quadratic Bezier from (x1,y1) to (x2,y2) through
// control point (cx,cy) and fills an arrowhead at the end. A control
// point on the start gives a straight line.
func drawArrow(ctx *renderContext, x1, y1, x2, y2, cx, cy float64, c color.Color) {
	const steps = 100.0
	px, py := x1, y1
	for i := 1.0; i <= steps; i++ {
		t := i / steps
		x := (1-t)*(1-t)*x1 + 2*(1-t)*t*cx + t*t*x2
		y := (1-t)*(1-t)*y1 + 2*(1-t)*t*cy + t*t*y2
		drawLine(ctx, px, py, x, y, c)
		px, py = x, y
	}

	tx, ty := x2-cx, y2-cy
	dist := math.Hypot(tx, ty)
	if dist < 1 {
		tx, ty = x2-x1, y2-y1
		dist = math.Hypot(tx, ty)
		if dist < 1 {
			return
		}
	}
	nx, ny := tx/dist, ty/dist
	arrowLen, arrowWidth := 8*ctx.scale, 4*ctx.scale
	ax1, ay1 := x2-nx*arrowLen+ny*arrowWidth, y2-ny*arrowLen-nx*arrowWidth
	ax2, ay2 := x2-nx*arrowLen-ny*arrowWidth, y2-ny*arrowLen+nx*arrowWidth
	for t := 0.0; t <= 1.0; t += 0.05 {
		drawLine(ctx, x2, y2, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, c)
	}
}

// drawText draws text centred at (x, y).
func drawText(ctx *renderContext, face font.Face, x, y int, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(y + int(float64(ascent)*0.35))},
	}
	d.DrawString(text)
}
