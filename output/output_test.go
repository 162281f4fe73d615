package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/viert/netinv/store"
)

func testInventory() *store.Inventory {
	inv := store.New()
	inv.AddHost("SATL01.mycompany.com")
	inv.SetVariable("SATL01.mycompany.com", "location", "ATL")
	inv.AddHost("RATL01.mycompany.com")
	inv.SetVariable("RATL01.mycompany.com", "location", "ATL")
	inv.AddHost("lab1.mycompany.com")

	inv.AddHostToGroup("ATL", "SATL01.mycompany.com")
	inv.AddHostToGroup("ATL", "RATL01.mycompany.com")
	inv.AddHostToGroup("routers", "RATL01.mycompany.com")
	inv.AddChildGroup("sites", "ATL")
	return inv
}

func TestListJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(testInventory(), JSON).List(&buf))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	want := map[string]interface{}{
		"_meta": map[string]interface{}{
			"hostvars": map[string]interface{}{
				"SATL01.mycompany.com": map[string]interface{}{"location": "ATL"},
				"RATL01.mycompany.com": map[string]interface{}{"location": "ATL"},
				"lab1.mycompany.com":   map[string]interface{}{},
			},
		},
		"all": map[string]interface{}{
			"children": []interface{}{"ungrouped", "routers", "sites"},
		},
		"ungrouped": map[string]interface{}{
			"hosts": []interface{}{"lab1.mycompany.com"},
		},
		"ATL": map[string]interface{}{
			"hosts": []interface{}{"SATL01.mycompany.com", "RATL01.mycompany.com"},
		},
		"routers": map[string]interface{}{
			"hosts": []interface{}{"RATL01.mycompany.com"},
		},
		"sites": map[string]interface{}{
			"children": []interface{}{"ATL"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("--list mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(store.New(), JSON).List(&buf))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "_meta")
	assert.Contains(t, got, "all")
}

func TestListYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(testInventory(), YAML).List(&buf))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	children := got["all"].(map[string]interface{})["children"].(map[string]interface{})
	assert.Contains(t, children, "routers")
	assert.Contains(t, children, "sites")

	// vars are written on the first occurrence only
	routers := children["routers"].(map[string]interface{})["hosts"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"location": "ATL"}, routers["RATL01.mycompany.com"])
	atl := children["sites"].(map[string]interface{})["children"].(map[string]interface{})["ATL"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{}, atl["hosts"].(map[string]interface{})["RATL01.mycompany.com"])

	ungrouped := children["ungrouped"].(map[string]interface{})["hosts"].(map[string]interface{})
	assert.Contains(t, ungrouped, "lab1.mycompany.com")
}

func TestHost(t *testing.T) {
	var buf bytes.Buffer
	r := New(testInventory(), JSON)
	require.NoError(t, r.Host(&buf, "SATL01.mycompany.com"))
	assert.JSONEq(t, `{"location": "ATL"}`, buf.String())

	err := r.Host(&buf, "ghost")
	assert.True(t, errors.Is(err, store.ErrUnknownHost))
}

func TestGraph(t *testing.T) {
	var buf bytes.Buffer
	r := New(testInventory(), JSON)
	require.NoError(t, r.Graph(&buf, ""))

	want := `@all:
  |--@ungrouped:
  |  |--lab1.mycompany.com
  |--@routers:
  |  |--RATL01.mycompany.com
  |--@sites:
  |  |--@ATL:
  |  |  |--RATL01.mycompany.com
  |  |  |--SATL01.mycompany.com
`
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, r.Graph(&buf, "ATL"))
	assert.Equal(t, "@ATL:\n  |--RATL01.mycompany.com\n  |--SATL01.mycompany.com\n", buf.String())

	assert.Error(t, r.Graph(&buf, "nope"))
}

func TestListReservedGroups(t *testing.T) {
	inv := testInventory()
	inv.AddHost("a.mycompany.com")
	inv.AddHostToGroup("all", "a.mycompany.com")
	inv.AddHostToGroup("ungrouped", "lab1.mycompany.com")
	inv.AddChildGroup("all", "core")
	inv.AddHostToGroup("core", "RATL01.mycompany.com")

	var buf bytes.Buffer
	r := New(inv, JSON)
	require.NoError(t, r.List(&buf))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	want := map[string]interface{}{
		"children": []interface{}{"ungrouped", "routers", "sites", "core"},
	}
	if diff := cmp.Diff(want, got["all"]); diff != "" {
		t.Errorf("all group mismatch (-want +got):\n%s", diff)
	}
	want = map[string]interface{}{
		"hosts": []interface{}{"lab1.mycompany.com", "a.mycompany.com"},
	}
	if diff := cmp.Diff(want, got["ungrouped"]); diff != "" {
		t.Errorf("ungrouped group mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, New(inv, YAML).List(&buf))
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	children := doc["all"].(map[string]interface{})["children"].(map[string]interface{})
	assert.Contains(t, children, "core")
	assert.NotContains(t, children, "all")
	ungrouped := children["ungrouped"].(map[string]interface{})["hosts"].(map[string]interface{})
	assert.Contains(t, ungrouped, "a.mycompany.com")

	buf.Reset()
	require.NoError(t, r.Graph(&buf, "ungrouped"))
	assert.Equal(t, "@ungrouped:\n  |--a.mycompany.com\n  |--lab1.mycompany.com\n", buf.String())
}
