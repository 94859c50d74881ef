/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package tree builds the roster hierarchy (root, groups, characters) and
// computes a drawable layout for it.
//
// The hierarchy is stored as a flat arena: nodes refer to each other by
// index, the root is always index 0, and a tree is rebuilt from scratch
// whenever the roster or grouping mode changes.
package tree

import (
	"github.com/Seednode/guesswho/games/grouping"
	"github.com/Seednode/guesswho/games/roster"
)

// Kind tags a node as the root, a group or a character leaf.
type Kind uint8

const (
	Root Kind = iota
	Group
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Group:
		return "group"
	case Leaf:
		return "leaf"
	}
	return "unknown"
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	RootLabel = "BRAINROT"
	RootColor = "#ffffff"
)

// Node is one arena entry. Character is only set on leaves.
type Node struct {
	Kind      Kind
	Label     string
	Color     string
	Character *roster.Character
	Parent    int
	Children  []int
	Depth     int
	Leaves    int
}

// Tree is an immutable roster hierarchy for a single grouping mode.
type Tree struct {
	Mode  grouping.Mode
	Nodes []Node
}

// Build groups chars by mode and returns the resulting three-level tree.
func Build(chars []roster.Character, mode grouping.Mode) *Tree {
	groups := grouping.GroupBy(chars, mode)

	t := &Tree{
		Mode:  mode,
		Nodes: make([]Node, 1, 1+len(groups)+len(chars)),
	}
	t.Nodes[0] = Node{
		Kind:   Root,
		Label:  RootLabel,
		Color:  RootColor,
		Parent: -1,
	}

	for _, g := range groups {
		gi := t.add(Node{
			Kind:   Group,
			Label:  g.Key,
			Color:  g.Color,
			Parent: 0,
			Depth:  1,
		})

		for i := range g.Members {
			c := g.Members[i]
			t.add(Node{
				Kind:      Leaf,
				Label:     c.Name,
				Color:     g.Color,
				Character: &c,
				Parent:    gi,
				Depth:     2,
				Leaves:    1,
			})
		}
	}

	t.countLeaves(0)

	return t
}

func (t *Tree) add(n Node) int {
	i := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	if n.Parent >= 0 {
		t.Nodes[n.Parent].Children = append(t.Nodes[n.Parent].Children, i)
	}
	return i
}

func (t *Tree) countLeaves(i int) int {
	n := &t.Nodes[i]
	if n.Kind == Leaf {
		return 1
	}

	total := 0
	for _, c := range n.Children {
		total += t.countLeaves(c)
	}
	n.Leaves = total

	return total
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.Nodes[0]
}

// Characters returns every leaf character in tree order.
func (t *Tree) Characters() []roster.Character {
	var out []roster.Character
	for _, n := range t.Nodes {
		if n.Kind == Leaf {
			out = append(out, *n.Character)
		}
	}
	return out
}
