/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package hint produces short clues about the secret character.
//
// Generators may be slow or fail; callers go through Resolve, which always
// yields something to show the player.
package hint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Seednode/guesswho/games/roster"
)

// Fallback is shown whenever a generator fails or has nothing to say.
const Fallback = "💀 The brainrot crashed, try again..."

// ErrEmpty is reported when a generator returns a blank hint.
var ErrEmpty = errors.New("generator returned an empty hint")

// Generator writes a new hint about target that differs from previous.
type Generator interface {
	Hint(ctx context.Context, target roster.Character, previous []string) (string, error)
}

// Resolve asks gen for a hint and substitutes Fallback on any failure. The
// returned error is informational: the hint is always usable.
func Resolve(ctx context.Context, gen Generator, target roster.Character, previous []string) (string, error) {
	if gen == nil {
		return Fallback, errors.New("no hint generator configured")
	}

	text, err := gen.Hint(ctx, target, previous)
	if err != nil {
		return Fallback, fmt.Errorf("generating hint for %s: %w", target.ID, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback, ErrEmpty
	}

	return text, nil
}

const promptTemplate = `You are the absolute master of brainrot.

CHARACTER TO GUESS:
- Name: "%s"
- Description: "%s"
- Story: "%s"
- Tags: %s

CLASSIFICATION:
- Species: %s
- Element: %s
- Alignment: %s
- Size: %s
- Origin: %s
- Power: %s
- Weakness: %s

RULES:
1. Talk like a TikToker on too much caffeine. Use emojis (🦎, 🤌, 💀, 🤡, 🔥, 🧠, 🍌, ☕, 🚀, 🐊).
2. Be cheeky, brainrot style: "Are you serious bro?", "Even an NPC knows this one".
3. Give a CRYPTIC hint based on ONE of these, picked at random:
   - the character's story
   - its species or element
   - its origin
   - its power or weakness
   - its alignment or size
4. You may pun on the name but never say it.
5. Keep it very short (15 words max).
6. Previous hints were: %s. Give a COMPLETELY DIFFERENT hint about another aspect of the character.`

// Prompt builds the text-generation prompt for target.
func Prompt(target roster.Character, previous []string) string {
	return fmt.Sprintf(promptTemplate,
		target.Name,
		target.Description,
		target.Story,
		strings.Join(target.Tags, ", "),
		target.Species,
		target.Element,
		target.Alignment,
		target.Size,
		target.Origin,
		target.Power,
		target.Weakness,
		strings.Join(previous, " | "),
	)
}
