package nfafile

import "math"

// Point is a node centre in canvas pixels.
type Point struct {
	X, Y float64
}

// Layout holds node positions fitted to a canvas.
type Layout struct {
	Pos    map[string]Point
	Radius float64
}

// minRadius keeps small canvases legible.
const minRadius = 12.0

// LayeredLayout places nodes in columns by breadth-first distance from
// the initial node, left to right. Nodes the initial node cannot reach
// share a final column. Within a column, nodes keep graph order.
//
// The box (left, top, width, height) is the drawable area; radius is the
// preferred node radius and shrinks when columns or rows are crowded.
func LayeredLayout(g *Graph, left, top, width, height, radius float64) *Layout {
	l := &Layout{Pos: make(map[string]Point, len(g.Nodes)), Radius: radius}
	if len(g.Nodes) == 0 {
		return l
	}

	columns := layerColumns(g)

	colW := width / float64(len(columns))
	maxRows := 1
	for _, col := range columns {
		if len(col) > maxRows {
			maxRows = len(col)
		}
	}
	rowH := height / float64(maxRows)

	l.Radius = math.Min(radius, math.Min(colW, rowH)/3)
	if l.Radius < minRadius {
		l.Radius = minRadius
	}

	for i, col := range columns {
		x := left + (float64(i)+0.5)*colW
		// Centre short columns vertically.
		offset := (height - float64(len(col))*rowH) / 2
		for j, id := range col {
			y := top + offset + (float64(j)+0.5)*rowH
			l.Pos[id] = Point{X: x, Y: y}
		}
	}
	return l
}

// layerColumns groups node ids by rank.
func layerColumns(g *Graph) [][]string {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	rank := make(map[string]int, len(g.Nodes))
	if start := g.Initial(); start != "" {
		rank[start] = 0
		queue := []string{start}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, to := range adj[id] {
				if _, seen := rank[to]; !seen {
					rank[to] = rank[id] + 1
					queue = append(queue, to)
				}
			}
		}
	}

	maxRank := -1
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	columns := make([][]string, maxRank+1)
	var rest []string
	for _, n := range g.Nodes {
		if r, ok := rank[n.ID]; ok {
			columns[r] = append(columns[r], n.ID)
		} else {
			rest = append(rest, n.ID)
		}
	}
	if len(rest) > 0 {
		columns = append(columns, rest)
	}
	return columns
}
