/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hint

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Seednode/guesswho/games/roster"
)

// Offline writes canned hints from the character's own fields. It needs no
// network and is used when no text-generation API is configured.
type Offline struct{}

var aspects = []func(c roster.Character) string{
	func(c roster.Character) string {
		return fmt.Sprintf("🧠 Lore check: %s", lowerFirst(c.Story))
	},
	func(c roster.Character) string {
		return fmt.Sprintf("🦎 %s vibes, %s energy. Are you serious bro?", c.Species, c.Element)
	},
	func(c roster.Character) string {
		return fmt.Sprintf("🚀 Straight outta %s 🤌", c.Origin)
	},
	func(c roster.Character) string {
		return fmt.Sprintf("🔥 Power: %s. Kryptonite: %s 💀", lowerFirst(c.Power), lowerFirst(c.Weakness))
	},
	func(c roster.Character) string {
		return fmt.Sprintf("🤡 %s and %s. Even an NPC knows this one", c.Alignment, strings.ToLower(string(c.Size)))
	},
}

// Hint starts at the aspect after the ones already used and skips any
// aspect whose hint is still in previous, so consecutive hints talk about
// different things even when previous is truncated.
func (Offline) Hint(ctx context.Context, target roster.Character, previous []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := len(previous) % len(aspects)
	for i := range aspects {
		h := aspects[(start+i)%len(aspects)](target)
		if !slices.Contains(previous, h) {
			return h, nil
		}
	}

	return aspects[start](target), nil
}

func lowerFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "???"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
