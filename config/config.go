// Package config loads runtime settings from command-line flags with
// environment-variable overrides (TAK_SIZE, TAK_TABLE_BITS and so on).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Size      int
	Depth     int
	TableBits int
	Komi      int
	Tiebreak  bool
	Position  string
	Debug     bool
}

func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("tak", pflag.ContinueOnError)
	fs.Int("size", 5, "board size, 3 through 8")
	fs.Int("depth", 6, "search or perft depth in plies")
	fs.Int("table-bits", 22, "transposition table slots as a power of two")
	fs.Int("komi", 0, "flat-count bonus granted to the second player")
	fs.Bool("tiebreak", false, "tied flat counts go to the second player")
	fs.String("position", "", "start from this position string instead of an empty board")
	fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	v.SetEnvPrefix("tak")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	c.Size = v.GetInt("size")
	c.Depth = v.GetInt("depth")
	c.TableBits = v.GetInt("table-bits")
	c.Komi = v.GetInt("komi")
	c.Tiebreak = v.GetBool("tiebreak")
	c.Position = v.GetString("position")
	c.Debug = v.GetBool("debug")

	if c.Size < 3 || c.Size > 8 {
		return fmt.Errorf("board size %d out of range", c.Size)
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth %d out of range", c.Depth)
	}
	if c.TableBits < 10 || c.TableBits > 30 {
		return fmt.Errorf("table-bits %d out of range", c.TableBits)
	}
	return nil
}
