// Package plugin loads inventory source documents and runs the matching
// device source through the constructor into an inventory.
package plugin

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/viert/netinv/backend"
	"github.com/viert/netinv/constructed"
	"github.com/viert/netinv/log"
	"github.com/viert/netinv/store"
	"github.com/viert/netinv/stringslice"
)

// Plugin is an inventory source plugin
type Plugin interface {
	// Name returns the fully qualified plugin name
	Name() string
	// VerifyFile tells whether the file looks like this plugin's source
	VerifyFile(path string) bool
	// Parse reads the source document and populates inv
	Parse(ctx context.Context, path string, inv *store.Inventory) error
}

// PasswordOverrider is implemented by plugins taking a password option
// which can be supplied interactively instead
type PasswordOverrider interface {
	OverridePassword(password string)
}

// ConfigError describes everything wrong with one source document
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid inventory source %s: %s", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errors returns every individual problem found
func (e *ConfigError) Errors() []error {
	return multierr.Errors(e.Err)
}

// All returns a fresh instance of every known plugin
func All() []Plugin {
	return []Plugin{
		NewDNAC(),
		NewDyn(),
	}
}

// ForFile returns the first plugin accepting the file
func ForFile(path string) (Plugin, error) {
	for _, p := range All() {
		if p.VerifyFile(path) {
			log.Debugf("%s is handled by %s", path, p.Name())
			return p, nil
		}
	}
	return nil, &ConfigError{
		Path: path,
		Err:  fmt.Errorf("no plugin accepts this file, is it readable and named *dnac_inventory.yml or *dyn_inventory.yml?"),
	}
}

func verifyFile(path string, suffixes []string) bool {
	if !stringslice.HasSuffix(path, suffixes) {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	st, err := f.Stat()
	return err == nil && !st.IsDir()
}

// header holds the options common to every plugin document
type header struct {
	Plugin string `yaml:"plugin"`
}

func readDocument(path string, doc interface{}) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

func checkPluginName(name string, accepted []string) error {
	if name == "" {
		return fmt.Errorf("plugin option is missing")
	}
	if !stringslice.Contains(accepted, name) {
		return fmt.Errorf("plugin %q doesn't match %s", name, accepted[0])
	}
	return nil
}

func populate(ctx context.Context, src backend.Source, c *constructed.Constructor, inv *store.Inventory) error {
	count := 0
	err := src.Devices(ctx, func(device backend.Device) error {
		count++
		return c.Materialize(device, inv)
	})
	if err != nil {
		return err
	}
	log.Debugf("%d devices processed, %d hosts in inventory", count, len(inv.Hosts()))
	return nil
}
