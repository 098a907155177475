package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.Size, 5)
	is.Equal(cfg.Depth, 6)
	is.Equal(cfg.TableBits, 22)
	is.Equal(cfg.Komi, 0)
	is.Equal(cfg.Tiebreak, false)
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--size", "6", "--komi", "2", "--tiebreak", "--position", "x3/x3/x3 1 1"}))
	is.Equal(cfg.Size, 6)
	is.Equal(cfg.Komi, 2)
	is.Equal(cfg.Tiebreak, true)
	is.Equal(cfg.Position, "x3/x3/x3 1 1")
}

func TestLoadEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("TAK_TABLE_BITS", "18")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.TableBits, 18)
}

func TestLoadRejectsBadValues(t *testing.T) {
	is := is.New(t)
	is.True((&Config{}).Load([]string{"--size", "2"}) != nil)
	is.True((&Config{}).Load([]string{"--depth", "0"}) != nil)
	is.True((&Config{}).Load([]string{"--table-bits", "40"}) != nil)
}
