// Package tuning loads level tuning overrides from YAML.
//
// It lives apart from config so that tools without the service environment can use it.
package tuning

import (
	"fmt"
	"os"

	"github.com/beka-birhanu/vinom-chase/game"
	"gopkg.in/yaml.v3"
)

// Load returns the default tuning overridden by the YAML file at path. Keys missing from
// the file keep their default value. An empty path yields the defaults.
func Load(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return game.Tuning{}, fmt.Errorf("reading tuning file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for YAML already in memory.
func Parse(data []byte) (game.Tuning, error) {
	t := game.DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return game.Tuning{}, fmt.Errorf("parsing tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return game.Tuning{}, err
	}
	return t, nil
}
