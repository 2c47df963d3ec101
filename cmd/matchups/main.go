package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/icco/gutil/logging"
	"github.com/icco/pokejournal"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var log = logging.Must(logging.NewLogger(pokejournal.Service))

var opts struct {
	DatabaseURL string         `long:"database-url" env:"DATABASE_URL" description:"Postgres connection string" required:"true"`
	Game        int64          `short:"g" long:"game" description:"Game to score" required:"true"`
	Owner       int64          `short:"o" long:"owner" description:"User owning the game" required:"true"`
	ScoringFile flags.Filename `long:"scoring-file" env:"SCORING_FILE" description:"YAML or TOML file overriding matchup scoring"`
}

func main() {
	_ = godotenv.Load()

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	scoring := pokejournal.DefaultScoring()
	if opts.ScoringFile != "" {
		sc, err := pokejournal.LoadScoring(string(opts.ScoringFile))
		if err != nil {
			log.Errorw("could not load scoring rules", "file", opts.ScoringFile, zap.Error(err))
			os.Exit(1)
		}
		scoring = sc
	}

	db, err := pokejournal.Open(opts.DatabaseURL)
	if err != nil {
		log.Errorw("could not get db", zap.Error(err))
		os.Exit(1)
	}

	board, err := pokejournal.NewStore(db, pokejournal.WithScoring(scoring)).
		BuildMatchups(context.Background(), opts.Game, opts.Owner)
	if err != nil {
		log.Errorw("could not build matchups", "game", opts.Game, zap.Error(err))
		os.Exit(1)
	}

	printBoard(os.Stdout, board)
}

// printBoard writes one line per matchup.
func printBoard(w io.Writer, board *pokejournal.MatchupBoard) {
	fmt.Fprintf(w, "%s\n", board.GameName)
	for _, m := range board.Matchups {
		fmt.Fprintln(w, formatMatchup(m))
	}
}

func formatMatchup(m pokejournal.Matchup) string {
	return fmt.Sprintf("%s %d - %d %s (%d showdowns)",
		m.Player1Name, m.Player1Points, m.Player2Points, m.Player2Name, len(m.Showdowns))
}
