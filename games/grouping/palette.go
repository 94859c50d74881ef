/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package grouping

import (
	"github.com/Seednode/guesswho/games/roster"
)

// DefaultColor is used for keys missing from a palette.
const DefaultColor = "#6b7280"

var elementColors = map[string]string{
	string(roster.Fire):   "#f97316",
	string(roster.Water):  "#3b82f6",
	string(roster.Air):    "#22d3ee",
	string(roster.Earth):  "#b45309",
	string(roster.Cosmic): "#a855f7",
	string(roster.Sound):  "#ec4899",
	string(roster.Coffee): "#78350f",
}

var speciesColors = map[string]string{
	string(roster.Humanoid): "#10b981",
	string(roster.Animal):   "#f59e0b",
	string(roster.Hybrid):   "#8b5cf6",
	string(roster.Object):   "#6b7280",
	string(roster.Creature): "#ef4444",
}

var alignmentColors = map[string]string{
	string(roster.Good):    "#22c55e",
	string(roster.Neutral): "#a3a3a3",
	string(roster.Chaotic): "#f59e0b",
	string(roster.Evil):    "#dc2626",
}

var familyColors = map[string]string{
	FamilyCoffee:    "#78350f",
	FamilyCrocodile: "#22c55e",
	FamilySound:     "#ec4899",
	FamilyCosmic:    "#a855f7",
	FamilyChaos:     "#f97316",
	FamilyOther:     "#6b7280",
}

var rarityColors = map[string]string{
	string(roster.Legendary): "#eab308",
	string(roster.Rare):      "#a855f7",
	string(roster.Common):    "#6b7280",
}

var sizeColors = map[string]string{
	string(roster.Small):  "#22d3ee",
	string(roster.Medium): "#10b981",
	string(roster.Large):  "#f59e0b",
	string(roster.Giant):  "#dc2626",
}

func palette(mode Mode) map[string]string {
	switch mode {
	case BySpecies:
		return speciesColors
	case ByElement:
		return elementColors
	case ByAlignment:
		return alignmentColors
	case ByRarity:
		return rarityColors
	case BySize:
		return sizeColors
	default:
		return familyColors
	}
}

// Color returns the display color of a group key under mode.
func Color(mode Mode, key string) string {
	if c, ok := palette(mode)[key]; ok {
		return c
	}
	return DefaultColor
}

// RarityColor returns the badge color for a character's rarity, which is
// drawn on leaves regardless of the active mode.
func RarityColor(r roster.Rarity) string {
	return Color(ByRarity, string(r))
}
