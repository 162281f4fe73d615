package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/viert/properties"
)

const defaultConfigContents = `[main]
log_file =
log_level = warning
history_file = ~/.netinv_history
output = json
natural_sort = true

[environ]
`

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config represents netinv tool configuration
type Config struct {
	Readline         *readline.Config
	LogFile          string
	LogLevel         string
	Output           string
	NaturalSort      bool
	LocalEnvironment map[string]string
}

const (
	defaultHistoryFile = "~/.netinv_history"
	defaultLogFile     = ""
	defaultLogLevel    = "warning"
	defaultOutput      = OutputJSON
	defaultNaturalSort = true
)

func defaultReadlineConfig() *readline.Config {
	return &readline.Config{
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	}
}

// ExpandPath helper helps to expand ~ as a home directory
// as well as it expands any env variable usage in path
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = "$HOME/" + path[2:]
	}
	return os.ExpandEnv(path)
}

// Read reads and parses a configuration file creating
// it with default contents if it doesn't exist
func Read(filename string) (*Config, error) {
	return read(filename, false)
}

func read(filename string, secondPass bool) (*Config, error) {
	var props *properties.Properties
	var err error

	props, err = properties.Load(filename)
	if err != nil {
		if secondPass {
			return nil, err
		}

		if os.IsNotExist(err) {
			err = ioutil.WriteFile(filename, []byte(defaultConfigContents), 0644)
			if err != nil {
				return nil, err
			}
		}
		return read(filename, true)
	}

	cfg := new(Config)
	cfg.Readline = defaultReadlineConfig()
	cfg.LocalEnvironment = make(map[string]string)

	hf, err := props.GetString("main.history_file")
	if err != nil {
		hf = defaultHistoryFile
	}
	cfg.Readline.HistoryFile = ExpandPath(hf)

	lf, err := props.GetString("main.log_file")
	if err != nil {
		lf = defaultLogFile
	}
	cfg.LogFile = ExpandPath(lf)

	ll, err := props.GetString("main.log_level")
	if err != nil || ll == "" {
		ll = defaultLogLevel
	}
	cfg.LogLevel = ll

	out, err := props.GetString("main.output")
	if err != nil || out == "" {
		out = defaultOutput
	}
	switch out {
	case OutputJSON, OutputYAML:
		cfg.Output = out
	default:
		return nil, fmt.Errorf("Invalid output format \"%s\"", out)
	}

	ns, err := props.GetBool("main.natural_sort")
	if err != nil {
		ns = defaultNaturalSort
	}
	cfg.NaturalSort = ns

	envkeys, err := props.Subkeys("environ")
	if err == nil {
		for _, key := range envkeys {
			value, _ := props.GetString(fmt.Sprintf("environ.%s", key))
			cfg.LocalEnvironment[key] = ExpandPath(value)
		}
	}

	return cfg, nil
}

// ExportEnvironment puts [environ] entries into the process
// environment unless a variable is already set there
func (cfg *Config) ExportEnvironment() error {
	for key, value := range cfg.LocalEnvironment {
		if _, found := os.LookupEnv(key); found {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("exporting %s: %w", key, err)
		}
	}
	return nil
}
