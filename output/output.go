// Package output renders an inventory the way ansible-inventory does:
// a --list document with _meta.hostvars, a single host's variables
// and a --graph tree.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/viert/netinv/store"
)

// Format is a rendering format
type Format string

// Rendering formats
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

const (
	allGroup       = "all"
	ungroupedGroup = "ungrouped"
)

func reserved(name string) bool {
	return name == allGroup || name == ungroupedGroup
}

// Renderer renders one inventory
type Renderer struct {
	inv    *store.Inventory
	format Format
}

// New creates a Renderer. Unknown formats fall back to JSON
func New(inv *store.Inventory, format Format) *Renderer {
	if format != YAML {
		format = JSON
	}
	return &Renderer{inv: inv, format: format}
}

// List writes the whole inventory
func (r *Renderer) List(w io.Writer) error {
	if r.format == YAML {
		return encodeYAML(w, r.yamlList())
	}
	return encodeJSON(w, r.jsonList())
}

// Host writes variables of a single host
func (r *Renderer) Host(w io.Writer, name string) error {
	h, found := r.inv.Host(name)
	if !found {
		return fmt.Errorf("%w %s", store.ErrUnknownHost, name)
	}
	if r.format == YAML {
		return encodeYAML(w, h.Vars)
	}
	return encodeJSON(w, h.Vars)
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	return enc.Close()
}

// ungrouped returns hosts with no group other than "all" or "ungrouped"
func (r *Renderer) ungrouped() []*store.Host {
	res := make([]*store.Host, 0)
	for _, h := range r.inv.Hosts() {
		member := false
		for _, g := range h.Groups {
			if !reserved(g.Name) {
				member = true
				break
			}
		}
		if !member {
			res = append(res, h)
		}
	}
	return res
}

// rootGroups returns groups hanging directly off "all". Subgroups of
// user defined "all" and "ungrouped" groups are merged into the root.
func (r *Renderer) rootGroups() []*store.Group {
	res := make([]*store.Group, 0)
	seen := make(map[string]bool)
	add := func(g *store.Group) {
		if !reserved(g.Name) && !seen[g.Name] {
			seen[g.Name] = true
			res = append(res, g)
		}
	}
	for _, g := range r.inv.TopGroups() {
		add(g)
	}
	for _, name := range []string{allGroup, ungroupedGroup} {
		g, found := r.inv.Group(name)
		if !found {
			continue
		}
		for _, child := range g.Children {
			add(child)
		}
	}
	return res
}

func childGroups(g *store.Group) []*store.Group {
	res := make([]*store.Group, 0, len(g.Children))
	for _, child := range g.Children {
		if !reserved(child.Name) {
			res = append(res, child)
		}
	}
	return res
}
