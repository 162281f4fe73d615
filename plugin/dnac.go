package plugin

import (
	"context"

	"go.uber.org/multierr"

	"github.com/viert/netinv/backend/dnac"
	"github.com/viert/netinv/store"
)

// DNACName is the fully qualified name of the DNA Center plugin
const DNACName = "rtlocal.custom_collection.dnac_inventory"

const (
	defaultDNACPort    = 443
	defaultDNACVersion = "2.3.7.6"
)

var (
	dnacNames    = []string{DNACName, "dnac_inventory"}
	dnacSuffixes = []string{"dnac_inventory.yaml", "dnac_inventory.yml"}
)

type dnacDocument struct {
	header             `yaml:",inline"`
	constructedOptions `yaml:",inline"`

	Host                   *string `yaml:"dnac_host"`
	Port                   *int    `yaml:"dnac_port"`
	Username               *string `yaml:"dnac_username"`
	Password               *string `yaml:"dnac_password"`
	Verify                 *bool   `yaml:"dnac_verify"`
	Version                *string `yaml:"dnac_version"`
	Debug                  *bool   `yaml:"dnac_debug"`
	ValidateResponseSchema *bool   `yaml:"validate_response_schema"`
}

// DNAC builds inventory from the DNA Center device list
type DNAC struct {
	password string
}

// NewDNAC creates the DNA Center plugin
func NewDNAC() *DNAC {
	return &DNAC{}
}

// Name implements Plugin
func (p *DNAC) Name() string {
	return DNACName
}

// VerifyFile implements Plugin
func (p *DNAC) VerifyFile(path string) bool {
	return verifyFile(path, dnacSuffixes)
}

// OverridePassword implements PasswordOverrider
func (p *DNAC) OverridePassword(password string) {
	p.password = password
}

func (p *DNAC) options(doc *dnacDocument) (dnac.Options, error) {
	r := &optionReader{}
	r.fail(checkPluginName(doc.Plugin, dnacNames))

	if p.password != "" {
		doc.Password = &p.password
	}
	opts := dnac.Options{
		Host:                   r.required("dnac_host", doc.Host, "DNAC_HOST"),
		Port:                   r.integer("dnac_port", doc.Port, "DNAC_PORT", defaultDNACPort),
		Username:               r.required("dnac_username", doc.Username, "DNAC_USERNAME"),
		Password:               r.required("dnac_password", doc.Password, "DNAC_PASSWORD"),
		Verify:                 r.boolean("dnac_verify", doc.Verify, "DNAC_VERIFY", true),
		Version:                r.str("dnac_version", doc.Version, "DNAC_VERSION", defaultDNACVersion),
		Debug:                  r.boolean("dnac_debug", doc.Debug, "DNAC_DEBUG", false),
		ValidateResponseSchema: r.boolean("validate_response_schema", doc.ValidateResponseSchema, "", true),
	}
	return opts, r.errs
}

// Parse implements Plugin
func (p *DNAC) Parse(ctx context.Context, path string, inv *store.Inventory) error {
	doc := new(dnacDocument)
	if err := readDocument(path, doc); err != nil {
		return err
	}

	opts, errs := p.options(doc)
	c, err := doc.constructor()
	errs = multierr.Append(errs, err)
	if errs != nil {
		return &ConfigError{Path: path, Err: errs}
	}

	client, err := dnac.New(opts)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return populate(ctx, client, c, inv)
}
