package dnac

import (
	"fmt"
	"net/http"

	"github.com/viert/netinv/backend"
)

// Client is a minimal DNA Center API client able to list network devices
type Client struct {
	url      string
	username string
	password string
	version  string
	debug    bool
	validate bool
	client   *http.Client
	token    string
}

// Options configure a Client
type Options struct {
	Host                   string
	Port                   int
	Username               string
	Password               string
	Verify                 bool
	Version                string
	Debug                  bool
	ValidateResponseSchema bool
}

// TransportError is returned when the controller can't be reached,
// rejects the request or responds with something unreadable
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status code %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type apiToken struct {
	Token string `json:"Token"`
}

type apiDevices struct {
	Response *[]backend.Device `json:"response"`
	Version  string            `json:"version"`
}
