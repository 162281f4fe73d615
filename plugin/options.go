package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/viert/netinv/constructed"
	"github.com/viert/netinv/expr"
)

const defaultKeyedSeparator = "_"

// namedSource is one entry of an ordered name: expression mapping
type namedSource struct {
	Name   string
	Source string
}

// orderedSources keeps compose and groups entries in document order
type orderedSources []namedSource

// UnmarshalYAML implements yaml.Unmarshaler
func (o *orderedSources) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a mapping of names to expressions expected", node.Line)
	}
	res := make(orderedSources, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expression for %s must be a string", v.Line, k.Value)
		}
		res = append(res, namedSource{Name: k.Value, Source: v.Value})
	}
	*o = res
	return nil
}

type keyedGroupOptions struct {
	Key               string  `yaml:"key"`
	Prefix            string  `yaml:"prefix"`
	Separator         *string `yaml:"separator"`
	DefaultValue      *string `yaml:"default_value"`
	ParentGroup       string  `yaml:"parent_group"`
	TrailingSeparator *bool   `yaml:"trailing_separator"`
}

// constructedOptions are the host construction options
// shared by every plugin document
type constructedOptions struct {
	Strict           bool                `yaml:"strict"`
	Compose          orderedSources      `yaml:"compose"`
	Groups           orderedSources      `yaml:"groups"`
	KeyedGroups      []keyedGroupOptions `yaml:"keyed_groups"`
	LeadingSeparator bool                `yaml:"leading_separator"`
}

func compileAll(section string, sources orderedSources) ([]constructed.NamedExpr, error) {
	var errs error
	res := make([]constructed.NamedExpr, 0, len(sources))
	for _, ns := range sources {
		e, err := expr.Compile(ns.Source)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w", section, ns.Name, err))
			continue
		}
		res = append(res, constructed.NamedExpr{Name: ns.Name, Expr: e})
	}
	return res, errs
}

// constructor validates the options and builds a Constructor.
// All problems are reported at once.
func (opts *constructedOptions) constructor() (*constructed.Constructor, error) {
	var errs error

	compose, err := compileAll("compose", opts.Compose)
	errs = multierr.Append(errs, err)
	groups, err := compileAll("groups", opts.Groups)
	errs = multierr.Append(errs, err)

	keyed := make([]constructed.KeyedGroup, 0, len(opts.KeyedGroups))
	for i, kgo := range opts.KeyedGroups {
		if kgo.Key == "" {
			errs = multierr.Append(errs, fmt.Errorf("keyed_groups[%d]: key is required", i))
			continue
		}
		key, err := expr.Compile(kgo.Key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("keyed_groups[%d]: %w", i, err))
			continue
		}
		kg := constructed.KeyedGroup{
			Key:               key,
			Prefix:            kgo.Prefix,
			Separator:         defaultKeyedSeparator,
			DefaultValue:      kgo.DefaultValue,
			ParentGroup:       kgo.ParentGroup,
			TrailingSeparator: true,
		}
		if kgo.Separator != nil {
			kg.Separator = *kgo.Separator
		}
		if kgo.TrailingSeparator != nil {
			kg.TrailingSeparator = *kgo.TrailingSeparator
		}
		keyed = append(keyed, kg)
	}

	if errs != nil {
		return nil, errs
	}
	return &constructed.Constructor{
		Compose:          compose,
		Groups:           groups,
		KeyedGroups:      keyed,
		Strict:           opts.Strict,
		LeadingSeparator: opts.LeadingSeparator,
	}, nil
}

// optionReader resolves plugin options falling back to environment
// variables and collects every problem it meets
type optionReader struct {
	errs error
}

func (r *optionReader) fail(err error) {
	r.errs = multierr.Append(r.errs, err)
}

func (r *optionReader) str(name string, value *string, env string, def string) string {
	if value != nil {
		return *value
	}
	if v, found := os.LookupEnv(env); found && env != "" {
		return v
	}
	return def
}

func (r *optionReader) required(name string, value *string, env string) string {
	v := r.str(name, value, env, "")
	if v == "" {
		if env != "" {
			r.fail(fmt.Errorf("%s is required (or set %s)", name, env))
		} else {
			r.fail(fmt.Errorf("%s is required", name))
		}
	}
	return v
}

func (r *optionReader) boolean(name string, value *bool, env string, def bool) bool {
	if value != nil {
		return *value
	}
	v, found := os.LookupEnv(env)
	if !found || env == "" {
		return def
	}
	b, err := parseBool(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: invalid boolean %q in %s", name, v, env))
		return def
	}
	return b
}

func (r *optionReader) integer(name string, value *int, env string, def int) int {
	if value != nil {
		return *value
	}
	v, found := os.LookupEnv(env)
	if !found || env == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("%s: invalid integer %q in %s", name, v, env))
		return def
	}
	return i
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
