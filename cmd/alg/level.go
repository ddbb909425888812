package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// levelFlag is a CEFR level or "all". The empty value keeps the level from the settings.
type levelFlag string

func (l *levelFlag) Set(val string) error {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == vocabulary.LevelAll {
		*l = levelFlag(val)
		return nil
	}
	level, err := vocabulary.ParseCEFRLevel(val)
	if err != nil {
		return fmt.Errorf("invalid level: %s. Possible values are %s and %v", val, vocabulary.LevelAll, vocabulary.AllCEFRLevels())
	}
	*l = levelFlag(level)
	return nil
}

func (l levelFlag) String() string {
	return string(l)
}

func (l *levelFlag) Type() string {
	return "level"
}

var (
	_ pflag.Value = (*levelFlag)(nil)
)
