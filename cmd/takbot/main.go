package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Christian-Schefe/tak-sub000/bot"
	"github.com/Christian-Schefe/tak-sub000/config"
	"github.com/Christian-Schefe/tak-sub000/search"
	"github.com/Christian-Schefe/tak-sub000/zobrist"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	worker := bot.New(zobrist.NewTable(), search.NewTable(cfg.TableBits))
	defer worker.Close()

	resp := worker.ChooseMove(bot.Request{
		Position: cfg.Position,
		Size:     cfg.Size,
		Komi:     cfg.Komi,
		Tiebreak: cfg.Tiebreak,
		MaxDepth: cfg.Depth,
	})
	if resp.Err != nil {
		log.Fatal().Err(resp.Err).Msg("no move found")
	}
	fmt.Println(resp.Move.String())
}
