package dnac

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/viert/netinv/backend"
	"github.com/viert/netinv/log"
	"github.com/viert/netinv/term"
)

const (
	tokenPath  = "/dna/system/api/v1/auth/token"
	devicePath = "/dna/intent/api/v1/network-device"
)

// DeviceFamilies limits the device list to switches and routers
var DeviceFamilies = []string{"Switches and Hubs", "Routers"}

// New creates and configures a controller client
func New(opts Options) (*Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("DNA Center host is not configured")
	}

	base := opts.Host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid DNA Center host %q: %w", opts.Host, err)
	}
	if u.Port() == "" && opts.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", u.Hostname(), opts.Port)
	}

	client := &http.Client{}
	if !opts.Verify {
		rootCAs, _ := x509.SystemCertPool()
		tlsconf := &tls.Config{
			InsecureSkipVerify: true,
			RootCAs:            rootCAs,
		}
		client.Transport = &http.Transport{TLSClientConfig: tlsconf}
		term.Warnf("WARNING: DNA Center will be accessed without TLS verification\n")
	}

	if opts.Debug {
		// request tracing is logged at info level
		log.RaiseLevel("info")
	}

	return &Client{
		url:      strings.TrimRight(u.String(), "/"),
		username: opts.Username,
		password: opts.Password,
		version:  opts.Version,
		debug:    opts.Debug,
		validate: opts.ValidateResponseSchema,
		client:   client,
	}, nil
}

// Devices implements backend.Source walking the device list page by page
func (c *Client) Devices(ctx context.Context, fn func(backend.Device) error) error {
	return backend.Walk(ctx, c, fn)
}

// DeviceList fetches one page of switches and routers
func (c *Client) DeviceList(ctx context.Context, offset, limit int) ([]backend.Device, error) {
	if c.token == "" {
		if err := c.authenticate(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	for _, family := range DeviceFamilies {
		params.Add("family", family)
	}

	req, err := c.newRequest(ctx, http.MethodGet, devicePath+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Token", c.token)

	data, err := c.do(req, "list devices")
	if err != nil {
		return nil, err
	}

	page := new(apiDevices)
	err = json.Unmarshal(data, page)
	if err != nil {
		return nil, &TransportError{Op: "list devices", URL: req.URL.String(), Err: err}
	}
	if page.Response == nil {
		if c.validate {
			return nil, &TransportError{
				Op:  "list devices",
				URL: req.URL.String(),
				Err: errors.New("response field is missing"),
			}
		}
		return []backend.Device{}, nil
	}
	return *page.Response, nil
}

func (c *Client) authenticate(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, tokenPath)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	data, err := c.do(req, "authenticate")
	if err != nil {
		return err
	}

	tok := new(apiToken)
	err = json.Unmarshal(data, tok)
	if err == nil && tok.Token == "" {
		err = errors.New("empty token")
	}
	if err != nil {
		return &TransportError{Op: "authenticate", URL: req.URL.String(), Err: err}
	}
	c.token = tok.Token
	log.Debugf("authenticated at %s as %s", c.url, c.username)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.version != "" {
		req.Header.Set("X-Api-Version", c.version)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	if c.debug {
		log.Infof("%s %s", req.Method, req.URL)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if c.debug {
		log.Infof("%s %s: %s", req.Method, req.URL, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: req.URL.String(), Err: err}
	}
	return data, nil
}
