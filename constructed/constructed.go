// Package constructed turns device records into inventory hosts, variables
// and groups.
//
// For every device the Constructor registers the host, copies each field
// as a host variable under a sanitized name, evaluates compose expressions
// in declared order (each one sees the fields and the composed variables
// before it), then adds the host to composed groups whose condition holds
// and to keyed groups derived from variable values. Nothing is rolled back
// when a step fails.
package constructed

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/viert/netinv/backend"
	"github.com/viert/netinv/expr"
	"github.com/viert/netinv/log"
)

// ErrMissingHostname is returned in strict mode for devices without a hostname
var ErrMissingHostname = errors.New("device has no hostname")

var invalidChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Sink is the inventory the Constructor writes to
type Sink interface {
	AddHost(name string)
	SetVariable(host string, key string, value interface{}) error
	AddHostToGroup(group string, host string) error
	AddChildGroup(parent string, child string) error
}

// NamedExpr is an expression bound to a variable or group name
type NamedExpr struct {
	Name string
	Expr *expr.Expression
}

// KeyedGroup describes groups named after the value of Key
type KeyedGroup struct {
	Key               *expr.Expression
	Prefix            string
	Separator         string
	DefaultValue      *string
	ParentGroup       string
	TrailingSeparator bool
}

// Constructor materializes devices into a Sink
type Constructor struct {
	Compose          []NamedExpr
	Groups           []NamedExpr
	KeyedGroups      []KeyedGroup
	Strict           bool
	LeadingSeparator bool
}

// Sanitize makes a valid variable or group name out of an arbitrary key.
// Sanitize(Sanitize(k)) == Sanitize(k)
func Sanitize(name string) string {
	s := invalidChars.ReplaceAllString(name, "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "_" + s
	}
	return s
}

func (c *Constructor) evaluator() expr.Evaluator {
	return expr.Evaluator{Strict: c.Strict}
}

// Materialize adds one device to the sink
func (c *Constructor) Materialize(device backend.Device, sink Sink) error {
	hostname, ok := device.Hostname()
	if !ok {
		if c.Strict {
			return fmt.Errorf("%w: %v", ErrMissingHostname, device)
		}
		log.Warningf("skipping device without hostname: %v", device)
		return nil
	}
	sink.AddHost(hostname)

	vars := make(map[string]interface{}, len(device))
	keys := make([]string, 0, len(device))
	for key := range device {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name := Sanitize(key)
		vars[name] = device[key]
		if err := sink.SetVariable(hostname, name, device[key]); err != nil {
			return err
		}
	}

	if err := c.setComposite(hostname, vars, sink); err != nil {
		return fmt.Errorf("host %s: %w", hostname, err)
	}
	if err := c.addToComposedGroups(hostname, vars, sink); err != nil {
		return fmt.Errorf("host %s: %w", hostname, err)
	}
	if err := c.addToKeyedGroups(hostname, vars, sink); err != nil {
		return fmt.Errorf("host %s: %w", hostname, err)
	}
	return nil
}

func (c *Constructor) setComposite(hostname string, vars map[string]interface{}, sink Sink) error {
	ev := c.evaluator()
	for _, ne := range c.Compose {
		value, ok, err := ev.Value(ne.Expr, vars)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		name := Sanitize(ne.Name)
		vars[name] = value
		if err := sink.SetVariable(hostname, name, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Constructor) addToComposedGroups(hostname string, vars map[string]interface{}, sink Sink) error {
	ev := c.evaluator()
	for _, ne := range c.Groups {
		ok, err := ev.Condition(ne.Expr, vars)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := sink.AddHostToGroup(Sanitize(ne.Name), hostname); err != nil {
			return err
		}
	}
	return nil
}

func (c *Constructor) addToKeyedGroups(hostname string, vars map[string]interface{}, sink Sink) error {
	for _, kg := range c.KeyedGroups {
		names, err := c.keyedGroupNames(kg, vars)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := sink.AddHostToGroup(name, hostname); err != nil {
				return err
			}
			if kg.ParentGroup != "" {
				if err := sink.AddChildGroup(Sanitize(kg.ParentGroup), name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Constructor) keyedGroupNames(kg KeyedGroup, vars map[string]interface{}) ([]string, error) {
	value, ok, err := c.evaluator().Value(kg.Key, vars)
	if err != nil {
		return nil, err
	}

	sep := kg.Separator
	raw := make([]string, 0)
	orDefault := func(s string) {
		if s != "" {
			raw = append(raw, s)
		} else if kg.DefaultValue != nil {
			raw = append(raw, *kg.DefaultValue)
		}
	}

	switch key := value.(type) {
	case []interface{}:
		for _, item := range key {
			orDefault(scalar(item))
		}
	case map[string]interface{}:
		gnames := make([]string, 0, len(key))
		for gname := range key {
			gnames = append(gnames, gname)
		}
		sort.Strings(gnames)
		for _, gname := range gnames {
			gval := scalar(key[gname])
			switch {
			case gval != "":
				raw = append(raw, gname+sep+gval)
			case kg.DefaultValue != nil:
				raw = append(raw, gname+sep+*kg.DefaultValue)
			case !kg.TrailingSeparator:
				raw = append(raw, gname)
			default:
				raw = append(raw, gname+sep)
			}
		}
	default:
		if ok {
			orDefault(scalar(key))
		} else {
			orDefault("")
		}
	}

	if len(raw) == 0 {
		if c.Strict {
			return nil, fmt.Errorf("keyed group key %q resulted empty", kg.Key)
		}
		return raw, nil
	}

	if kg.Prefix == "" && !c.LeadingSeparator {
		sep = ""
	}
	names := make([]string, len(raw))
	for i, bare := range raw {
		names[i] = Sanitize(kg.Prefix + sep + bare)
	}
	return names, nil
}

func scalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
