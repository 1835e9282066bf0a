package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                  string        `env:"HOST,default=localhost"`
	Port                  int           `env:"PORT,default=5000"`
	BadgerFilepath        string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel              string        `env:"LOG_LEVEL,default=info"`
	LimitMessages         *int          `env:"LIMIT_MESSAGES"`
	RestartInterval       time.Duration `env:"RESTART_INTERVAL,default=5s"`
	ReportInterval        time.Duration `env:"REPORT_INTERVAL,default=30s"`
	CensoredWordsFilepath string        `env:"CENSORED_WORDS_FILEPATH"`
	CharReplacement       string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	DebugPort             int           `env:"DEBUG_PORT,default=8081"`
}

func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
