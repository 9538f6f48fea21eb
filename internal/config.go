package internal

import (
	"fmt"
	"time"
)

// Config holds the server-side environment variables.
type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8080"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	AttachmentsDir    string        `env:"ATTACHMENTS_DIR,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	JWTSecret         string        `env:"PORTAL_JWT_SECRET"`

	CensoredWords   []string `env:"CENSORED_WORDS"`
	CharReplacement string   `env:"CHARACTER_REPLACEMENT,default=*"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`

	BadgerGCInterval time.Duration `env:"BADGER_GC_INTERVAL,default=10m"`

	DebugServer     bool `env:"DEBUG_SERVER"`
	DebugServerPort int  `env:"DEBUG_SERVER_PORT,default=6060"`
}

// CharacterRune checks that the censor replacement is a single character.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
