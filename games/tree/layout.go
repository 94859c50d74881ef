/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package tree

import (
	"math"
	"strconv"
	"strings"
)

// Config holds the fixed size constants a layout is computed from.
type Config struct {
	// NodeWidth is the horizontal room given to a single leaf.
	NodeWidth float64
	// LevelSpacing is the vertical distance between depths.
	LevelSpacing float64
	// Padding is added on every side of the node bounds.
	Padding float64

	RootRadius  float64
	GroupRadius float64
	LeafRadius  float64
}

// DefaultConfig matches the node sizes used by the game page.
func DefaultConfig() Config {
	return Config{
		NodeWidth:    140,
		LevelSpacing: 140,
		Padding:      500,
		RootRadius:   90,
		GroupRadius:  65,
		LeafRadius:   55,
	}
}

func (c Config) radius(k Kind) float64 {
	switch k {
	case Root:
		return c.RootRadius
	case Group:
		return c.GroupRadius
	default:
		return c.LeafRadius
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Span is the horizontal interval a subtree occupies.
type Span struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

func (s Span) Width() float64 {
	return s.Right - s.Left
}

// Overlaps reports whether two spans share more than an edge.
func (s Span) Overlaps(o Span) bool {
	return s.Left < o.Right && o.Left < s.Right
}

// Bounds is the padded rectangle enclosing every node centre.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// PlacedNode is a tree node annotated with its drawing coordinates.
type PlacedNode struct {
	Index       int     `json:"index"`
	Kind        Kind    `json:"kind"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	CharacterID string  `json:"character_id,omitempty"`
	Rarity      string  `json:"rarity,omitempty"`
	Leaves      int     `json:"leaves"`
	Position    Point   `json:"position"`
	Span        Span    `json:"span"`
	Radius      float64 `json:"radius"`
	Children    []int   `json:"children,omitempty"`
}

// Curve is a cubic Bézier connector between two anchor points.
type Curve struct {
	From     Point `json:"from"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	To       Point `json:"to"`
}

// NewCurve returns the vertical connector from a to b. Both control points
// sit at the vertical midpoint, so the curve leaves a and enters b straight
// down whatever the horizontal offset.
func NewCurve(a, b Point) Curve {
	mid := (a.Y + b.Y) / 2
	return Curve{
		From:     a,
		Control1: Point{X: a.X, Y: mid},
		Control2: Point{X: b.X, Y: mid},
		To:       b,
	}
}

// Path renders the curve as SVG path data.
func (c Curve) Path() string {
	var b strings.Builder

	b.WriteString("M")
	writePoint(&b, c.From)
	b.WriteString("C")
	writePoint(&b, c.Control1)
	b.WriteString(",")
	writePoint(&b, c.Control2)
	b.WriteString(",")
	writePoint(&b, c.To)

	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteString(",")
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// Link connects a parent to one of its children.
type Link struct {
	Parent int    `json:"parent"`
	Child  int    `json:"child"`
	Color  string `json:"color"`
	Leaf   bool   `json:"leaf"`
	Curve  Curve  `json:"curve"`
	Path   string `json:"path"`
}

// Layout is the computed drawing of a tree. Nodes are indexed exactly like
// the tree's arena.
type Layout struct {
	Mode   string       `json:"mode"`
	Nodes  []PlacedNode `json:"nodes"`
	Links  []Link       `json:"links"`
	Bounds Bounds       `json:"bounds"`
}

// Compute places every node of t. Each subtree is given horizontal room in
// proportion to its leaf count, children are packed left to right in tree
// order, and every node is centred over its own span. The result depends
// only on t and cfg.
func Compute(t *Tree, cfg Config) *Layout {
	l := &Layout{
		Mode:  string(t.Mode),
		Nodes: make([]PlacedNode, len(t.Nodes)),
		Links: make([]Link, 0, len(t.Nodes)-1),
	}

	width := footprint(t.Nodes[0], cfg)
	place(t, cfg, l, 0, Span{Left: -width / 2, Right: width / 2})

	for i, n := range t.Nodes {
		for _, c := range n.Children {
			from := l.Nodes[i].Position
			from.Y += l.Nodes[i].Radius
			to := l.Nodes[c].Position
			to.Y -= l.Nodes[c].Radius

			curve := NewCurve(from, to)
			l.Links = append(l.Links, Link{
				Parent: i,
				Child:  c,
				Color:  t.Nodes[c].Color,
				Leaf:   t.Nodes[c].Kind == Leaf,
				Curve:  curve,
				Path:   curve.Path(),
			})
		}
	}

	l.Bounds = bounds(l.Nodes, cfg.Padding)

	return l
}

// footprint is the horizontal room a subtree needs. A node with no leaves
// still occupies one slot.
func footprint(n Node, cfg Config) float64 {
	return float64(max(1, n.Leaves)) * cfg.NodeWidth
}

func place(t *Tree, cfg Config, l *Layout, i int, span Span) {
	n := t.Nodes[i]

	p := PlacedNode{
		Index:  i,
		Kind:   n.Kind,
		Label:  n.Label,
		Color:  n.Color,
		Leaves: n.Leaves,
		Position: Point{
			X: (span.Left + span.Right) / 2,
			Y: float64(n.Depth) * cfg.LevelSpacing,
		},
		Span:     span,
		Radius:   cfg.radius(n.Kind),
		Children: append([]int(nil), n.Children...),
	}
	if n.Character != nil {
		p.CharacterID = n.Character.ID
		p.Rarity = string(n.Character.Rarity)
	}
	l.Nodes[i] = p

	left := span.Left
	for _, c := range n.Children {
		w := footprint(t.Nodes[c], cfg)
		place(t, cfg, l, c, Span{Left: left, Right: left + w})
		left += w
	}
}

func bounds(nodes []PlacedNode, pad float64) Bounds {
	b := Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}

	for _, n := range nodes {
		b.MinX = math.Min(b.MinX, n.Position.X)
		b.MinY = math.Min(b.MinY, n.Position.Y)
		b.MaxX = math.Max(b.MaxX, n.Position.X)
		b.MaxY = math.Max(b.MaxY, n.Position.Y)
	}

	b.MinX -= pad
	b.MinY -= pad
	b.MaxX += pad
	b.MaxY += pad

	return b
}

// Node returns the placed node for a character id.
func (l *Layout) Node(characterID string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.Kind == Leaf && n.CharacterID == characterID {
			return n, true
		}
	}
	return PlacedNode{}, false
}
