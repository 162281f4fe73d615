package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/viert/netinv/store"
)

type meta struct {
	Hostvars map[string]map[string]interface{} `json:"hostvars"`
}

type listGroup struct {
	Hosts    []string `json:"hosts,omitempty"`
	Children []string `json:"children,omitempty"`
}

// listInventory is the ansible-inventory --list document
type listInventory struct {
	Meta   *meta
	Groups map[string]*listGroup
}

func (li *listInventory) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{})
	m["_meta"] = li.Meta
	for name, group := range li.Groups {
		m[name] = group
	}
	return json.Marshal(m)
}

func hostNames(hosts []*store.Host) []string {
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name
	}
	return names
}

func groupNames(groups []*store.Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func (r *Renderer) jsonList() *listInventory {
	li := &listInventory{
		Meta:   &meta{Hostvars: make(map[string]map[string]interface{})},
		Groups: make(map[string]*listGroup),
	}
	for _, h := range r.inv.Hosts() {
		li.Meta.Hostvars[h.Name] = h.Vars
	}

	for _, g := range r.inv.Groups() {
		if reserved(g.Name) {
			continue
		}
		li.Groups[g.Name] = &listGroup{
			Hosts:    hostNames(g.Hosts),
			Children: groupNames(childGroups(g)),
		}
	}
	li.Groups[allGroup] = &listGroup{
		Children: append([]string{ungroupedGroup}, groupNames(r.rootGroups())...),
	}
	if ungrouped := r.ungrouped(); len(ungrouped) > 0 {
		li.Groups[ungroupedGroup] = &listGroup{Hosts: hostNames(ungrouped)}
	}
	return li
}

// yamlList builds the YAML form of --list. Host variables are written
// on the first occurrence of a host only, later ones are empty mappings.
func (r *Renderer) yamlList() *yaml.Node {
	seen := make(map[string]bool)

	var groupNode func(hosts []*store.Host, children []*store.Group) *yaml.Node
	groupNode = func(hosts []*store.Host, children []*store.Group) *yaml.Node {
		node := mapping()
		if len(children) > 0 {
			cnode := mapping()
			for _, child := range children {
				addPair(cnode, child.Name, groupNode(child.Hosts, childGroups(child)))
			}
			addPair(node, "children", cnode)
		}
		if len(hosts) > 0 {
			hnode := mapping()
			for _, h := range hosts {
				vars := mapping()
				if !seen[h.Name] {
					seen[h.Name] = true
					vars = valueNode(h.Vars)
				}
				addPair(hnode, h.Name, vars)
			}
			addPair(node, "hosts", hnode)
		}
		return node
	}

	all := mapping()
	children := mapping()
	for _, g := range r.rootGroups() {
		addPair(children, g.Name, groupNode(g.Hosts, childGroups(g)))
	}
	addPair(children, ungroupedGroup, groupNode(r.ungrouped(), nil))
	addPair(all, "children", children)

	doc := mapping()
	addPair(doc, allGroup, all)
	return doc
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func valueNode(v interface{}) *yaml.Node {
	node := new(yaml.Node)
	if err := node.Encode(v); err != nil {
		return mapping()
	}
	return node
}
