/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package roster holds the fixed cast of characters a game is played over.
//
// A roster is loaded once at startup and is never mutated afterwards; every
// other package treats it as trusted, read-only data.
package roster

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

type Rarity string

const (
	Common    Rarity = "Common"
	Rare      Rarity = "Rare"
	Legendary Rarity = "Legendary"
)

type Species string

const (
	Humanoid Species = "Humanoid"
	Animal   Species = "Animal"
	Hybrid   Species = "Hybrid"
	Object   Species = "Object"
	Creature Species = "Creature"
)

type Element string

const (
	Fire   Element = "Fire"
	Water  Element = "Water"
	Air    Element = "Air"
	Earth  Element = "Earth"
	Cosmic Element = "Cosmic"
	Sound  Element = "Sound"
	Coffee Element = "Coffee"
)

type Alignment string

const (
	Good    Alignment = "Good"
	Neutral Alignment = "Neutral"
	Chaotic Alignment = "Chaotic"
	Evil    Alignment = "Evil"
)

type Size string

const (
	Small  Size = "Small"
	Medium Size = "Medium"
	Large  Size = "Large"
	Giant  Size = "Giant"
)

var (
	Rarities   = []Rarity{Common, Rare, Legendary}
	AllSpecies = []Species{Humanoid, Animal, Hybrid, Object, Creature}
	Elements   = []Element{Fire, Water, Air, Earth, Cosmic, Sound, Coffee}
	Alignments = []Alignment{Good, Neutral, Chaotic, Evil}
	Sizes      = []Size{Small, Medium, Large, Giant}
)

// Character is a single, immutable roster entry.
type Character struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Story       string    `yaml:"story" json:"story"`
	Power       string    `yaml:"power" json:"power"`
	Weakness    string    `yaml:"weakness" json:"weakness"`
	ImageURL    string    `yaml:"image_url" json:"image_url"`
	Tags        []string  `yaml:"tags" json:"tags"`
	Rarity      Rarity    `yaml:"rarity" json:"rarity"`
	Species     Species   `yaml:"species" json:"species"`
	Element     Element   `yaml:"element" json:"element"`
	Alignment   Alignment `yaml:"alignment" json:"alignment"`
	Size        Size      `yaml:"size" json:"size"`
	Origin      string    `yaml:"origin" json:"origin"`
}

// HasTag reports whether tag is one of the character's tags.
func (c Character) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Roster is an ordered list of characters. Order is significant: grouping
// and layout both preserve it.
type Roster []Character

// ByID returns the character with the given id.
func (r Roster) ByID(id string) (Character, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// IDs returns every character id in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, c := range r {
		ids = append(ids, c.ID)
	}
	return ids
}

//go:embed roster.yaml
var defaultRoster []byte

// Default returns the built-in roster.
func Default() Roster {
	r, err := Parse(bytes.NewReader(defaultRoster))
	if err != nil {
		panic("embedded roster is invalid: " + err.Error())
	}
	return r
}

// Load reads a roster from a YAML file on disk.
func Load(path string) (Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading roster %s: %w", path, err)
	}
	return r, nil
}

type document struct {
	Characters []Character `yaml:"characters"`
}

// Parse decodes a YAML roster document and checks that ids are present and
// unique and that every classification uses a known value.
func Parse(r io.Reader) (Roster, error) {
	var doc document

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Roster{}, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	seen := make(map[string]bool, len(doc.Characters))
	for i, c := range doc.Characters {
		if c.ID == "" {
			return nil, fmt.Errorf("character %d: missing id", i+1)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("character %d: duplicate id %q", i+1, c.ID)
		}
		seen[c.ID] = true

		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("character %q: %w", c.ID, err)
		}
	}

	return Roster(doc.Characters), nil
}

func (c Character) validate() error {
	switch {
	case !slices.Contains(Rarities, c.Rarity):
		return fmt.Errorf("unknown rarity %q", c.Rarity)
	case !slices.Contains(AllSpecies, c.Species):
		return fmt.Errorf("unknown species %q", c.Species)
	case !slices.Contains(Elements, c.Element):
		return fmt.Errorf("unknown element %q", c.Element)
	case !slices.Contains(Alignments, c.Alignment):
		return fmt.Errorf("unknown alignment %q", c.Alignment)
	case !slices.Contains(Sizes, c.Size):
		return fmt.Errorf("unknown size %q", c.Size)
	}
	return nil
}
