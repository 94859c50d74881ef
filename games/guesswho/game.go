/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package guesswho implements the two-player, one-device guessing round.
//
// Player one secretly picks a character, hands the device over, and player
// two eliminates candidates, asks for hints and guesses until they find it.
// Every command that is not valid in the current phase is ignored: the
// methods report whether anything changed and never return an error.
package guesswho

import (
	"context"
	"slices"

	"github.com/Seednode/guesswho/games/hint"
	"github.com/Seednode/guesswho/games/roster"
)

const (
	StartingScore = 100
	MissPenalty   = 20
	HintPenalty   = 10
	MaxHints      = 3

	PickingLine = "QUICK, PICK YOUR BRAINROT 🧠"
	OpeningLine = "THE OTHER ONE PICKED THEIR BRAINROT. FIND IT OR GET RATIO'D. 💀"
)

// State is a snapshot of the current round.
type State struct {
	Round      int               `json:"round"`
	Phase      Phase             `json:"phase"`
	Target     *roster.Character `json:"target,omitempty"`
	Eliminated []string          `json:"eliminated"`
	Attempts   int               `json:"attempts"`
	Hints      []string          `json:"hints"`
	Score      int               `json:"score"`
}

// IsEliminated reports whether id has been marked out this round.
func (s State) IsEliminated(id string) bool {
	return slices.Contains(s.Eliminated, id)
}

func (s State) clone() State {
	c := s
	if s.Target != nil {
		t := *s.Target
		t.Tags = slices.Clone(s.Target.Tags)
		c.Target = &t
	}
	c.Eliminated = slices.Clone(s.Eliminated)
	c.Hints = slices.Clone(s.Hints)
	return c
}

func newRound(n int) State {
	return State{
		Round:      n,
		Phase:      Picking,
		Eliminated: []string{},
		Hints:      []string{PickingLine},
		Score:      StartingScore,
	}
}

// Outcome is the result of a guess.
type Outcome int

const (
	Missed Outcome = iota
	Found
)

// Ticket is an in-flight hint request. It must be handed back to
// CompleteHint exactly once.
type Ticket struct {
	Round    int
	Target   roster.Character
	Previous []string
}

// Game owns the single live round for one device. It is not safe for
// concurrent use; callers serialise commands through one owner.
type Game struct {
	roster   roster.Roster
	state    State
	fetching bool
}

// New returns a game over r, waiting for the first pick.
func New(r roster.Roster) *Game {
	return &Game{
		roster: r,
		state:  newRound(1),
	}
}

// Roster returns the characters the game is played over.
func (g *Game) Roster() roster.Roster {
	return g.roster
}

// State returns a copy of the current round.
func (g *Game) State() State {
	return g.state.clone()
}

// Fetching reports whether a hint request is in flight.
func (g *Game) Fetching() bool {
	return g.fetching
}

// StartNewRound throws the current round away and waits for a new pick. It
// is accepted in every phase.
func (g *Game) StartNewRound() {
	g.state = newRound(g.state.Round + 1)
}

// SelectTarget records player one's secret pick.
func (g *Game) SelectTarget(id string) bool {
	if g.state.Phase != Picking {
		return false
	}

	c, ok := g.roster.ByID(id)
	if !ok {
		return false
	}

	g.state.Target = &c
	g.state.Phase = Transition

	return true
}

// ConfirmHandoff starts the guessing phase once player two has the device.
func (g *Game) ConfirmHandoff() bool {
	if g.state.Phase != Transition {
		return false
	}

	g.state.Phase = Guessing
	g.state.Hints = []string{OpeningLine}

	return true
}

// ToggleEliminate marks id out, or back in if it already was.
func (g *Game) ToggleEliminate(id string) bool {
	if g.state.Phase != Guessing {
		return false
	}
	if _, ok := g.roster.ByID(id); !ok {
		return false
	}

	if i := slices.Index(g.state.Eliminated, id); i >= 0 {
		g.state.Eliminated = slices.Delete(g.state.Eliminated, i, i+1)
	} else {
		g.state.Eliminated = append(g.state.Eliminated, id)
	}

	return true
}

// Guess checks id against the secret pick. A miss costs MissPenalty points
// and eliminates the guessed character.
func (g *Game) Guess(id string) (Outcome, bool) {
	if g.state.Phase != Guessing || g.state.Target == nil {
		return Missed, false
	}
	if _, ok := g.roster.ByID(id); !ok {
		return Missed, false
	}

	if id == g.state.Target.ID {
		g.state.Phase = GameOver
		return Found, true
	}

	g.state.Attempts++
	g.state.Score = max(0, g.state.Score-MissPenalty)
	if !slices.Contains(g.state.Eliminated, id) {
		g.state.Eliminated = append(g.state.Eliminated, id)
	}

	return Missed, true
}

// BeginHint starts a hint request. It is refused outside the guessing phase
// and while another request is still in flight.
func (g *Game) BeginHint() (Ticket, bool) {
	if g.state.Phase != Guessing || g.state.Target == nil || g.fetching {
		return Ticket{}, false
	}

	g.fetching = true

	return Ticket{
		Round:    g.state.Round,
		Target:   *g.state.Target,
		Previous: slices.Clone(g.state.Hints),
	}, true
}

// CompleteHint finishes the request t with text. The fetching guard is
// always released; the hint is only applied, at a cost of HintPenalty
// points, if its round is still being guessed.
func (g *Game) CompleteHint(t Ticket, text string) bool {
	g.fetching = false

	if t.Round != g.state.Round || g.state.Phase != Guessing {
		return false
	}

	hints := append([]string{text}, g.state.Hints...)
	if len(hints) > MaxHints {
		hints = hints[:MaxHints]
	}
	g.state.Hints = hints
	g.state.Score = max(0, g.state.Score-HintPenalty)

	return true
}

// RequestHint runs a whole hint request synchronously through gen. Failures
// are replaced by hint.Fallback; the generator error, if any, is returned
// for logging only.
func (g *Game) RequestHint(ctx context.Context, gen hint.Generator) (bool, error) {
	t, ok := g.BeginHint()
	if !ok {
		return false, nil
	}

	text, err := hint.Resolve(ctx, gen, t.Target, t.Previous)

	return g.CompleteHint(t, text), err
}
