package guesswho

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/guesswho/games/hint"
	"github.com/Seednode/guesswho/games/roster"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Hint(ctx context.Context, target roster.Character, previous []string) (string, error) {
	return s.text, s.err
}

func guessingGame(t *testing.T, target string) *Game {
	t.Helper()

	g := New(roster.Default())
	require.True(t, g.SelectTarget(target))
	require.True(t, g.ConfirmHandoff())

	return g
}

func TestNew(t *testing.T) {
	g := New(roster.Default())
	s := g.State()

	assert.Equal(t, 1, s.Round)
	assert.Equal(t, Picking, s.Phase)
	assert.Nil(t, s.Target)
	assert.Empty(t, s.Eliminated)
	assert.Equal(t, 0, s.Attempts)
	assert.Equal(t, []string{PickingLine}, s.Hints)
	assert.Equal(t, StartingScore, s.Score)
	assert.False(t, g.Fetching())
}

func TestScenario(t *testing.T) {
	g := New(roster.Default())

	require.True(t, g.SelectTarget("7"))
	s := g.State()
	assert.Equal(t, Transition, s.Phase)
	require.NotNil(t, s.Target)
	assert.Equal(t, "7", s.Target.ID)

	require.True(t, g.ConfirmHandoff())
	assert.Equal(t, []string{OpeningLine}, g.State().Hints)

	outcome, ok := g.Guess("3")
	require.True(t, ok)
	assert.Equal(t, Missed, outcome)
	s = g.State()
	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, 80, s.Score)
	assert.Equal(t, []string{"3"}, s.Eliminated)
	assert.Equal(t, Guessing, s.Phase)

	applied, err := g.RequestHint(context.Background(), stubGenerator{err: errors.New("offline")})
	require.True(t, applied)
	assert.Error(t, err)
	s = g.State()
	assert.Equal(t, []string{hint.Fallback, OpeningLine}, s.Hints)
	assert.Equal(t, 70, s.Score)
	assert.False(t, g.Fetching())

	outcome, ok = g.Guess("7")
	require.True(t, ok)
	assert.Equal(t, Found, outcome)
	assert.Equal(t, GameOver, g.State().Phase)
}

func TestSelectTarget(t *testing.T) {
	g := New(roster.Default())

	assert.False(t, g.SelectTarget("missing"), "unknown ids are ignored")
	assert.Equal(t, Picking, g.State().Phase)

	assert.True(t, g.SelectTarget("1"))
	assert.False(t, g.SelectTarget("2"), "target is set once per round")
	assert.Equal(t, "1", g.State().Target.ID)
}

func TestConfirmHandoffOnlyFromTransition(t *testing.T) {
	g := New(roster.Default())
	assert.False(t, g.ConfirmHandoff())
	assert.Equal(t, Picking, g.State().Phase)

	g = guessingGame(t, "1")
	g.ToggleEliminate("2")
	assert.False(t, g.ConfirmHandoff())
	assert.Equal(t, []string{"2"}, g.State().Eliminated)
}

func TestToggleEliminate(t *testing.T) {
	g := guessingGame(t, "1")

	require.True(t, g.ToggleEliminate("4"))
	require.True(t, g.ToggleEliminate("9"))
	assert.Equal(t, []string{"4", "9"}, g.State().Eliminated)
	assert.True(t, g.State().IsEliminated("9"))

	before := g.State().Eliminated
	require.True(t, g.ToggleEliminate("5"))
	require.True(t, g.ToggleEliminate("5"))
	assert.Equal(t, before, g.State().Eliminated, "toggling twice restores the set")

	require.True(t, g.ToggleEliminate("4"))
	assert.Equal(t, []string{"9"}, g.State().Eliminated)

	assert.Equal(t, StartingScore, g.State().Score, "elimination is free")

	assert.False(t, g.ToggleEliminate("missing"))
	assert.Equal(t, []string{"9"}, g.State().Eliminated)
}

func TestToggleEliminateOutsideGuessing(t *testing.T) {
	g := New(roster.Default())

	assert.False(t, g.ToggleEliminate("3"))
	assert.Empty(t, g.State().Eliminated)

	g.SelectTarget("1")
	assert.False(t, g.ToggleEliminate("3"))
	assert.Empty(t, g.State().Eliminated)

	g.ConfirmHandoff()
	g.Guess("1")
	assert.False(t, g.ToggleEliminate("3"))
	assert.Empty(t, g.State().Eliminated)
}

func TestGuessOutsideGuessing(t *testing.T) {
	g := New(roster.Default())

	_, ok := g.Guess("1")
	assert.False(t, ok)

	g.SelectTarget("1")
	_, ok = g.Guess("1")
	assert.False(t, ok)
	assert.Equal(t, Transition, g.State().Phase)
}

func TestGuessUnknownCharacter(t *testing.T) {
	g := guessingGame(t, "1")

	_, ok := g.Guess("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, g.State().Attempts)
	assert.Equal(t, StartingScore, g.State().Score)
}

func TestGuessMissDoesNotDuplicateElimination(t *testing.T) {
	g := guessingGame(t, "1")

	g.ToggleEliminate("3")
	g.Guess("3")

	s := g.State()
	assert.Equal(t, []string{"3"}, s.Eliminated)
	assert.Equal(t, 1, s.Attempts)
}

func TestGameOverIsSticky(t *testing.T) {
	g := guessingGame(t, "6")
	_, ok := g.Guess("6")
	require.True(t, ok)

	assert.False(t, g.SelectTarget("2"))
	assert.False(t, g.ConfirmHandoff())
	assert.False(t, g.ToggleEliminate("2"))
	_, ok = g.Guess("2")
	assert.False(t, ok)
	_, ok = g.BeginHint()
	assert.False(t, ok)
	assert.Equal(t, GameOver, g.State().Phase)

	g.StartNewRound()
	assert.Equal(t, Picking, g.State().Phase)
}

func TestScoreFloor(t *testing.T) {
	g := guessingGame(t, "1")
	ids := roster.Default().IDs()

	for i := 0; i < 8; i++ {
		_, err := g.RequestHint(context.Background(), stubGenerator{text: "clue"})
		require.NoError(t, err)
		g.Guess(ids[1+i%5])

		assert.GreaterOrEqual(t, g.State().Score, 0)
	}

	s := g.State()
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 8, s.Attempts, "attempts count every wrong guess")
}

func TestHintsCapped(t *testing.T) {
	g := guessingGame(t, "1")

	for _, text := range []string{"one", "two", "three", "four"} {
		applied, err := g.RequestHint(context.Background(), stubGenerator{text: text})
		require.NoError(t, err)
		require.True(t, applied)
	}

	s := g.State()
	assert.Equal(t, []string{"four", "three", "two"}, s.Hints)
	assert.Equal(t, StartingScore-4*HintPenalty, s.Score)
}

func TestOfflineHintsKeepChanging(t *testing.T) {
	g := guessingGame(t, "1")

	var last string
	for i := range 7 {
		applied, err := g.RequestHint(context.Background(), hint.Offline{})
		require.NoError(t, err)
		require.True(t, applied)

		s := g.State()
		require.Len(t, s.Hints, min(i+2, MaxHints))
		assert.NotEqual(t, last, s.Hints[0], "hint %d repeats the previous one", i+1)
		assert.Len(t, slices.Compact(slices.Sorted(slices.Values(s.Hints))), len(s.Hints), "visible hints are distinct")
		last = s.Hints[0]
	}

	assert.Equal(t, StartingScore-7*HintPenalty, g.State().Score)
}

func TestHintEmptyResultUsesFallback(t *testing.T) {
	g := guessingGame(t, "1")

	_, err := g.RequestHint(context.Background(), stubGenerator{text: " "})
	assert.ErrorIs(t, err, hint.ErrEmpty)
	assert.Equal(t, hint.Fallback, g.State().Hints[0])
}

func TestBeginHintGuard(t *testing.T) {
	g := New(roster.Default())
	_, ok := g.BeginHint()
	assert.False(t, ok, "no hints before guessing")

	g = guessingGame(t, "2")

	ticket, ok := g.BeginHint()
	require.True(t, ok)
	assert.True(t, g.Fetching())
	assert.Equal(t, "2", ticket.Target.ID)
	assert.Equal(t, []string{OpeningLine}, ticket.Previous)

	_, ok = g.BeginHint()
	assert.False(t, ok, "a second request while one is in flight is rejected")

	applied, err := g.RequestHint(context.Background(), stubGenerator{text: "never"})
	assert.False(t, applied)
	assert.NoError(t, err)

	require.True(t, g.CompleteHint(ticket, "🐊 first"))
	assert.False(t, g.Fetching())

	s := g.State()
	assert.Equal(t, []string{"🐊 first", OpeningLine}, s.Hints)
	assert.Equal(t, StartingScore-HintPenalty, s.Score, "charged exactly once")

	_, ok = g.BeginHint()
	assert.True(t, ok, "guard is released after completion")
}

func TestCompleteHintAfterNewRound(t *testing.T) {
	g := guessingGame(t, "2")

	ticket, ok := g.BeginHint()
	require.True(t, ok)

	g.StartNewRound()
	assert.False(t, g.CompleteHint(ticket, "late"))
	assert.False(t, g.Fetching())

	s := g.State()
	assert.Equal(t, []string{PickingLine}, s.Hints)
	assert.Equal(t, StartingScore, s.Score)
}

func TestCompleteHintAfterWin(t *testing.T) {
	g := guessingGame(t, "2")

	ticket, ok := g.BeginHint()
	require.True(t, ok)
	g.Guess("2")

	assert.False(t, g.CompleteHint(ticket, "late"))
	assert.Equal(t, StartingScore, g.State().Score)
	assert.False(t, g.Fetching())
}

func TestStartNewRoundResets(t *testing.T) {
	g := guessingGame(t, "1")
	g.Guess("2")
	g.ToggleEliminate("5")
	_, _ = g.RequestHint(context.Background(), stubGenerator{text: "clue"})

	g.StartNewRound()

	s := g.State()
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, Picking, s.Phase)
	assert.Nil(t, s.Target)
	assert.Empty(t, s.Eliminated)
	assert.Equal(t, 0, s.Attempts)
	assert.Equal(t, []string{PickingLine}, s.Hints)
	assert.Equal(t, StartingScore, s.Score)
}

func TestStateIsACopy(t *testing.T) {
	g := guessingGame(t, "1")
	g.ToggleEliminate("3")

	s := g.State()
	s.Eliminated[0] = "tampered"
	s.Hints[0] = "tampered"
	s.Target.Tags[0] = "tampered"

	fresh := g.State()
	assert.Equal(t, []string{"3"}, fresh.Eliminated)
	assert.Equal(t, OpeningLine, fresh.Hints[0])
	assert.Equal(t, "Music", fresh.Target.Tags[0])
	assert.Equal(t, "Music", g.Roster()[0].Tags[0])
}
