package main

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Christian-Schefe/tak-sub000/bitboard"
	"github.com/Christian-Schefe/tak-sub000/config"
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

	table := zobrist.NewTable()
	settings := bitboard.Settings{Komi: cfg.Komi, Tiebreak: cfg.Tiebreak}
	var (
		b   *bitboard.Board
		err error
	)
	if cfg.Position != "" {
		b, err = bitboard.FromPosition(cfg.Position, settings, table)
	} else {
		b, err = bitboard.New(cfg.Size, settings, table)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("bad start position")
	}

	log.Info().Str("position", b.Position()).Int("maxDepth", cfg.Depth).Msg("counting leaf nodes")
	for depth := 1; depth <= cfg.Depth; depth++ {
		start := time.Now()
		nodes := parallelPerft(b, depth)
		elapsed := time.Since(start)
		log.Info().
			Int("depth", depth).
			Uint64("nodes", nodes).
			Dur("elapsed", elapsed).
			Float64("knps", float64(nodes)/1000/(elapsed.Seconds()+1e-9)).
			Msg("perft")
	}
}

// parallelPerft splits the tree at the root, one worker per root move.
func parallelPerft(b *bitboard.Board, depth int) uint64 {
	moves := b.Moves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var total atomic.Uint64
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, m := range moves {
		child := b.Clone()
		child.Make(m)
		g.Go(func() error {
			total.Add(child.Perft(depth - 1))
			return nil
		})
	}
	_ = g.Wait()
	return total.Load()
}
