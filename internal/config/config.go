// Package config loads the optional settings file described in spec
// section 6: "an INI-like settings file of key=value lines... Parser is
// permissive; unknown keys are ignored."
//
// The grammar accepted is the flat subset of TOML ("key = value" per
// line, no tables) decoded with BurntSushi/toml, the teacher's config
// library. Unlike the teacher's own config.go — which treats any
// undecoded key as a hard error — this loader logs and discards unknown
// keys, per the spec's explicit permissiveness requirement.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nightwire/ircsuite/internal/logging"
)

var log = logging.New("config")

// Settings holds every recognized key from spec section 6. Only the
// server (cmd/ircd) loads a settings file, and it reads Port and
// MaxClients; the client does not load one.
type Settings struct {
	Nickname   string `toml:"nickname"`
	Username   string `toml:"username"`
	Realname   string `toml:"realname"`
	Color      string `toml:"color"`
	Hostname   string `toml:"hostname"`
	Port       int    `toml:"port"`
	MaxClients int    `toml:"max_clients"`
}

// Defaults returns the settings a program starts with before a file is
// applied.
func Defaults() Settings {
	return Settings{
		Username:   "guest",
		Realname:   "nightwire user",
		Hostname:   "127.0.0.1",
		Port:       50100,
		MaxClients: 64,
	}
}

// Load starts from Defaults and, if path is non-empty, overlays values
// decoded from the file at path. If the file cannot be stat'ed (including
// when it does not exist), that error is returned unwrapped, so callers
// that want to tolerate a missing file can test it with os.IsNotExist.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}

	if _, err := os.Stat(path); err != nil {
		return s, err
	}

	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return s, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Warnf("config: ignoring unrecognized key %q in %s", key.String(), path)
	}
	return s, nil
}
