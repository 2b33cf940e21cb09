// Package config reads declarative session files and resolves them into the
// window specifications the correlation engine consumes. Session files carry
// global defaults at the top level; any window key may appear globally and is
// inherited by every window unless the window overrides or suppresses it.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/crashvb/xsessionp/internal/session"
)

// CommandLine supports either:
//
//	command: "xclock -digital"
//
// or:
//
//	command:
//	  - xclock
//	  - -digital
//
// The string form is split with shell-style quoting.
type CommandLine []string

func (c *CommandLine) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*c = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("command must be a string or list of strings")
		}
		argv, err := session.SplitCommand(value.Value)
		if err != nil {
			return fmt.Errorf("command: %w", err)
		}
		*c = argv
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("command entries must be strings")
			}
			out = append(out, item.Value)
		}
		*c = out
		return nil
	default:
		return fmt.Errorf("command must be a string or list of strings")
	}
}

// RawWindow is one window entry as written in a session file. Every field is
// optional at this stage; the resolution pass in BuildSpecs decides what a
// missing, inherited, or suppressed field means. A `no_<key>` field set to
// true omits the key even when a global provides it; a window-level
// `no_<key>: false` re-enables a globally suppressed key.
type RawWindow struct {
	Name    *string     `yaml:"name"`
	Command CommandLine `yaml:"command"`

	CopyEnvironment   *bool             `yaml:"copy_environment"`
	NoCopyEnvironment *bool             `yaml:"no_copy_environment"`
	Desktop           *int              `yaml:"desktop"`
	NoDesktop         *bool             `yaml:"no_desktop"`
	Disabled          *bool             `yaml:"disabled"`
	NoDisabled        *bool             `yaml:"no_disabled"`
	Environment       map[string]string `yaml:"environment"`
	NoEnvironment     *bool             `yaml:"no_environment"`
	Focus             *bool             `yaml:"focus"`
	NoFocus           *bool             `yaml:"no_focus"`
	Geometry          *string           `yaml:"geometry"`
	NoGeometry        *bool             `yaml:"no_geometry"`
	Position          *string           `yaml:"position"`
	NoPosition        *bool             `yaml:"no_position"`
	Shell             *bool             `yaml:"shell"`
	NoShell           *bool             `yaml:"no_shell"`
	StartDirectory    *string           `yaml:"start_directory"`
	NoStartDirectory  *bool             `yaml:"no_start_directory"`
	StartTimeout      *int              `yaml:"start_timeout"`
	NoStartTimeout    *bool             `yaml:"no_start_timeout"`

	Hints        map[string]string `yaml:"hints"`
	NoHints      *bool             `yaml:"no_hints"`
	HintMethod   *string           `yaml:"hint_method"`
	NoHintMethod *bool             `yaml:"no_hint_method"`
}

// RawSession is a parsed session file: top-level globals plus the window
// list. The globals reuse the window shape; Name and Focus are not valid
// globally and are dropped with a warning during resolution.
type RawSession struct {
	Globals RawWindow   `yaml:",inline"`
	Windows []RawWindow `yaml:"windows"`
}
