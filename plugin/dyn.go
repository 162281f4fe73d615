package plugin

import (
	"context"

	"go.uber.org/multierr"

	"github.com/viert/netinv/backend/mock"
	"github.com/viert/netinv/store"
)

// DynName is the fully qualified name of the mock plugin
const DynName = "rtlocal.custom_collection.dyn_inventory"

var (
	dynNames    = []string{DynName, "dyn_inventory"}
	dynSuffixes = []string{"dyn_inventory.yaml", "dyn_inventory.yml"}
)

type dynDocument struct {
	header             `yaml:",inline"`
	constructedOptions `yaml:",inline"`

	Username *string `yaml:"cc_username"`
	Password *string `yaml:"cc_password"`
	Host     *string `yaml:"cc_host"`
}

// Dyn builds inventory from the built-in mock device list
type Dyn struct {
	password string
}

// NewDyn creates the mock plugin
func NewDyn() *Dyn {
	return &Dyn{}
}

// Name implements Plugin
func (p *Dyn) Name() string {
	return DynName
}

// VerifyFile implements Plugin
func (p *Dyn) VerifyFile(path string) bool {
	return verifyFile(path, dynSuffixes)
}

// OverridePassword implements PasswordOverrider
func (p *Dyn) OverridePassword(password string) {
	p.password = password
}

// Parse implements Plugin
func (p *Dyn) Parse(ctx context.Context, path string, inv *store.Inventory) error {
	doc := new(dynDocument)
	if err := readDocument(path, doc); err != nil {
		return err
	}

	r := &optionReader{}
	r.fail(checkPluginName(doc.Plugin, dynNames))
	if p.password != "" {
		doc.Password = &p.password
	}
	username := r.required("cc_username", doc.Username, "CC_USERNAME")
	password := r.required("cc_password", doc.Password, "CC_PASSWORD")
	host := r.required("cc_host", doc.Host, "CC_HOST")

	c, err := doc.constructor()
	errs := multierr.Append(r.errs, err)
	if errs != nil {
		return &ConfigError{Path: path, Err: errs}
	}

	return populate(ctx, mock.New(host, username, password), c, inv)
}
