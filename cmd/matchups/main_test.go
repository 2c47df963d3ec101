package main

import (
	"bytes"
	"testing"

	"github.com/icco/pokejournal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMatchup(t *testing.T) {
	m := pokejournal.Matchup{
		Player1Name:   "Ash",
		Player2Name:   "Gary",
		Player1Points: 3,
		Player2Points: -2,
		Showdowns:     make([]pokejournal.Showdown, 2),
	}
	assert.Equal(t, "Ash 3 - -2 Gary (2 showdowns)", formatMatchup(m))
}

func TestPrintBoard(t *testing.T) {
	var buf bytes.Buffer
	printBoard(&buf, &pokejournal.MatchupBoard{
		GameName: "Kanto run",
		Matchups: []pokejournal.Matchup{
			{Player1Name: "Ash", Player2Name: "Misty"},
			{Player1Name: "Ash", Player2Name: "Brock", Player1Points: 1},
		},
	})
	assert.Equal(t, "Kanto run\nAsh 0 - 0 Misty (0 showdowns)\nAsh 1 - 0 Brock (0 showdowns)\n", buf.String())
}
