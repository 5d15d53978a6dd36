package via

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type LogLevel int

const (
	undefined LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var logLevelNames = map[string]LogLevel{
	"error": LogLevelError,
	"warn":  LogLevelWarn,
	"info":  LogLevelInfo,
	"debug": LogLevelDebug,
}

func (l LogLevel) String() string {
	for name, lvl := range logLevelNames {
		if lvl == l {
			return name
		}
	}
	return "undefined"
}

// UnmarshalYAML accepts the level names error, warn, info and debug.
func (l *LogLevel) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	lvl, ok := logLevelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown log level %q", name)
	}
	*l = lvl
	return nil
}

// Plugin integrates with the Via app runtime. Implement Register to inject
// head elements, HTTP handlers, or other app-level concerns.
type Plugin interface {
	Register(*V)
}

// PluginFunc adapts a plain func to Plugin.
type PluginFunc func(*V)

func (f PluginFunc) Register(v *V) { f(v) }

// Options defines configuration options for the via application
type Options struct {
	// The http server address. e.g. ':3000'
	ServerAddress string `yaml:"server_address"`

	// Level of the logs to write to stdout.
	// Options: Error, Warn, Info, Debug.
	LogLvl LogLevel `yaml:"log_level"`

	// The title of the HTML document.
	DocumentTitle string `yaml:"document_title"`

	// Production silences development diagnostics that components emit
	// through Composition.Warnf.
	Production bool `yaml:"production"`

	// SessionTTL is the number of seconds after which tabs without an open
	// stream are forgotten. Default is 30 minutes. Negative disables cleanup.
	SessionTTL int `yaml:"session_ttl"`

	// DatastarURL is the location of the datastar client bundle.
	DatastarURL string `yaml:"datastar_url"`

	// Plugins to extend the capabilities of the `Via` application.
	Plugins []Plugin `yaml:"-"`
}

// LoadOptions reads options from a YAML file. A missing file is not an error
// and yields zero options, which leave the defaults untouched when passed to
// V.Config.
func LoadOptions(path string) (Options, error) {
	var opts Options
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("read options: %w", err)
	}
	if err := yaml.Unmarshal(b, &opts); err != nil {
		return opts, fmt.Errorf("parse options %s: %w", path, err)
	}
	return opts, nil
}
