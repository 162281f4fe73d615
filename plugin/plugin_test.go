package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viert/netinv/backend/dnac"
	"github.com/viert/netinv/log"
	"github.com/viert/netinv/store"
)

func init() {
	log.SetupNullLogger()
}

func writeSource(t *testing.T, name, contents string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "netinv")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func groupNames(inv *store.Inventory) []string {
	names := make([]string, 0)
	for _, g := range inv.Groups() {
		names = append(names, g.Name)
	}
	return names
}

const dynSource = `plugin: rtlocal.custom_collection.dyn_inventory
cc_username: admin
cc_password: secret
cc_host: cc.example.com
compose:
  ansible_host: mgmtAddress
  ansible_network_os: '"cisco." + softwareType'
groups:
  routers: deviceType == "router"
  switches: deviceType == "switch"
keyed_groups:
  - key: location
  - key: softwareType
    prefix: os
    parent_group: platforms
`

func TestVerifyFile(t *testing.T) {
	dyn := writeSource(t, "lab.dyn_inventory.yml", dynSource)
	dnacPath := writeSource(t, "dnac_inventory.yaml", "plugin: dnac_inventory\n")
	other := writeSource(t, "inventory.yml", dynSource)

	assert.True(t, NewDyn().VerifyFile(dyn))
	assert.False(t, NewDNAC().VerifyFile(dyn))
	assert.True(t, NewDNAC().VerifyFile(dnacPath))
	assert.False(t, NewDyn().VerifyFile(other))
	assert.False(t, NewDyn().VerifyFile(filepath.Join(filepath.Dir(dyn), "missing.dyn_inventory.yml")))

	p, err := ForFile(dnacPath)
	require.NoError(t, err)
	assert.Equal(t, DNACName, p.Name())

	_, err = ForFile(other)
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestDynParse(t *testing.T) {
	path := writeSource(t, "dyn_inventory.yml", dynSource)
	inv := store.New()
	require.NoError(t, NewDyn().Parse(context.Background(), path, inv))

	require.Len(t, inv.Hosts(), 5)
	h, _ := inv.Host("RATL01.mycompany.com")
	assert.Equal(t, "10.30.2.1", h.Vars["ansible_host"])
	assert.Equal(t, "cisco.IOS", h.Vars["ansible_network_os"])

	assert.Equal(t,
		[]string{"switches", "ATL", "os_IOS_XE", "platforms", "routers", "os_IOS", "CLT", "RDU", "os_NX_OS"},
		groupNames(inv),
	)
	routers, _ := inv.Group("routers")
	assert.Len(t, routers.Hosts, 2)
	platforms, _ := inv.Group("platforms")
	assert.Len(t, platforms.Children, 3)
}

func TestDynEnvFallback(t *testing.T) {
	path := writeSource(t, "dyn_inventory.yaml", "plugin: dyn_inventory\n")
	os.Setenv("CC_USERNAME", "admin")
	os.Setenv("CC_PASSWORD", "secret")
	os.Setenv("CC_HOST", "cc.example.com")
	defer func() {
		os.Unsetenv("CC_USERNAME")
		os.Unsetenv("CC_PASSWORD")
		os.Unsetenv("CC_HOST")
	}()

	inv := store.New()
	require.NoError(t, NewDyn().Parse(context.Background(), path, inv))
	assert.Len(t, inv.Hosts(), 5)
	assert.Empty(t, inv.Groups())
}

func TestConfigErrorsAggregated(t *testing.T) {
	path := writeSource(t, "dyn_inventory.yml", `plugin: something_else
compose:
  broken: 'location +'
keyed_groups:
  - prefix: site
`)
	err := NewDyn().Parse(context.Background(), path, store.New())

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, path, cerr.Path)
	// plugin name, three credentials, one bad expression, one keyless keyed group
	assert.Len(t, cerr.Errors(), 6)
}

func TestMalformedDocument(t *testing.T) {
	path := writeSource(t, "dyn_inventory.yml", "compose: [1, 2\n")
	err := NewDyn().Parse(context.Background(), path, store.New())
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))

	path = writeSource(t, "dyn_inventory.yml", "plugin: dyn_inventory\ncompose:\n  - a\n")
	err = NewDyn().Parse(context.Background(), path, store.New())
	assert.True(t, errors.As(err, &cerr))
}

func TestKeyedGroupDefaults(t *testing.T) {
	c, err := (&constructedOptions{
		KeyedGroups: []keyedGroupOptions{{Key: "location", Prefix: "site"}},
	}).constructor()
	require.NoError(t, err)
	require.Len(t, c.KeyedGroups, 1)
	assert.Equal(t, "_", c.KeyedGroups[0].Separator)
	assert.True(t, c.KeyedGroups[0].TrailingSeparator)
}

func TestDNACParse(t *testing.T) {
	var sentVersion string
	mux := http.NewServeMux()
	mux.HandleFunc("/dna/system/api/v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Token": "tok"})
	})
	mux.HandleFunc("/dna/intent/api/v1/network-device", func(w http.ResponseWriter, r *http.Request) {
		sentVersion = r.Header.Get("X-Api-Version")
		page := []map[string]interface{}{}
		if r.URL.Query().Get("offset") == "0" {
			page = append(page,
				map[string]interface{}{"hostname": "c9300-1.lab", "platformId": "C9300-48P", "family": "Switches and Hubs"},
				map[string]interface{}{"hostname": "isr-1.lab", "platformId": "ISR4451", "family": "Routers"},
			)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"response": page})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path := writeSource(t, "dnac_inventory.yml", `plugin: dnac_inventory
dnac_host: `+srv.URL+`
dnac_username: admin
dnac_password: secret
keyed_groups:
  - key: family
    prefix: family
`)
	inv := store.New()
	require.NoError(t, NewDNAC().Parse(context.Background(), path, inv))

	assert.Len(t, inv.Hosts(), 2)
	assert.Equal(t, []string{"family_Switches_and_Hubs", "family_Routers"}, groupNames(inv))
	assert.Equal(t, defaultDNACVersion, sentVersion)
}

func TestDNACEmptyFirstPage(t *testing.T) {
	pages := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/dna/system/api/v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Token": "tok"})
	})
	mux.HandleFunc("/dna/intent/api/v1/network-device", func(w http.ResponseWriter, r *http.Request) {
		pages++
		json.NewEncoder(w).Encode(map[string]interface{}{"response": []interface{}{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path := writeSource(t, "dnac_inventory.yml", `plugin: dnac_inventory
dnac_host: `+srv.URL+`
dnac_username: admin
dnac_password: secret
keyed_groups:
  - key: family
    prefix: family
    parent_group: families
`)
	inv := store.New()
	require.NoError(t, NewDNAC().Parse(context.Background(), path, inv))

	assert.Equal(t, 1, pages)
	assert.Empty(t, inv.Hosts())
	assert.Empty(t, inv.Groups())
}

func TestDNACTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	path := writeSource(t, "dnac_inventory.yml", "plugin: "+DNACName+"\ndnac_host: "+srv.URL+"\n")
	p := NewDNAC()
	os.Setenv("DNAC_USERNAME", "admin")
	defer os.Unsetenv("DNAC_USERNAME")
	p.OverridePassword("wrong")

	err := p.Parse(context.Background(), path, store.New())
	var terr *dnac.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
}
