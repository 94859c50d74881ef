/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package grouping buckets roster characters by a selectable attribute.
package grouping

import (
	"fmt"
	"strings"

	"github.com/Seednode/guesswho/games/roster"
)

// Mode selects the attribute characters are grouped by.
type Mode string

const (
	ByFamily    Mode = "family"
	BySpecies   Mode = "species"
	ByElement   Mode = "element"
	ByAlignment Mode = "alignment"
	ByRarity    Mode = "rarity"
	BySize      Mode = "size"
)

// Modes lists every grouping mode in menu order.
var Modes = []Mode{ByFamily, BySpecies, ByElement, ByAlignment, ByRarity, BySize}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown grouping mode %q", s)
}

// Family names produced by the derived family classification.
const (
	FamilyCoffee    = "Coffee"
	FamilyCrocodile = "Crocodile"
	FamilySound     = "Sound"
	FamilyCosmic    = "Cosmic"
	FamilyChaos     = "Chaos"
	FamilyOther     = "Other"
)

// Family classifies a character with an ordered list of rules; the first
// rule that matches decides. Reordering the rules changes the result for
// characters that match more than one.
func Family(c roster.Character) string {
	switch {
	case c.Element == roster.Coffee || c.HasTag("Coffee"):
		return FamilyCoffee
	case c.HasTag("Crocodile") || strings.Contains(c.Name, "CROCODIL"):
		return FamilyCrocodile
	case c.Element == roster.Sound || c.HasTag("Music") || c.HasTag("Singing"):
		return FamilySound
	case c.Element == roster.Cosmic || c.HasTag("Space") || c.HasTag("Sky"):
		return FamilyCosmic
	case c.Alignment == roster.Chaotic || c.HasTag("Chaos") || c.HasTag("Explosion"):
		return FamilyChaos
	default:
		return FamilyOther
	}
}

// Key returns the group a character belongs to under mode.
func Key(c roster.Character, mode Mode) string {
	switch mode {
	case BySpecies:
		return string(c.Species)
	case ByElement:
		return string(c.Element)
	case ByAlignment:
		return string(c.Alignment)
	case ByRarity:
		return string(c.Rarity)
	case BySize:
		return string(c.Size)
	default:
		return Family(c)
	}
}

// Group is one non-empty bucket of characters sharing a key.
type Group struct {
	Key     string
	Color   string
	Members []roster.Character
}

// GroupBy buckets chars by mode. Groups appear in the order their key is
// first seen and members keep their relative input order.
func GroupBy(chars []roster.Character, mode Mode) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, c := range chars {
		key := Key(c, mode)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Key:   key,
				Color: Color(mode, key),
			})
		}

		groups[i].Members = append(groups[i].Members, c)
	}

	return groups
}
