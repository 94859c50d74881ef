/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guesswho

// Phase is the stage of the current round.
type Phase string

const (
	Picking    Phase = "picking"    // player one secretly picks a character
	Transition Phase = "transition" // the device is handed to player two
	Guessing   Phase = "guessing"   // player two eliminates, guesses and asks for hints
	GameOver   Phase = "game_over"  // the character was found
)

func (p Phase) String() string {
	return string(p)
}
