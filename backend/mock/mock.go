package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/viert/netinv/backend"
	"github.com/viert/netinv/log"
)

const payload = `{
	"devices": [
		{
			"hostname": "SATL01.mycompany.com",
			"softwareType": "IOS-XE",
			"location": "ATL",
			"mgmtAddress": "10.30.1.1",
			"deviceType": "switch"
		},
		{
			"hostname": "RATL01.mycompany.com",
			"softwareType": "IOS",
			"location": "ATL",
			"mgmtAddress": "10.30.2.1",
			"deviceType": "router"
		},
		{
			"hostname": "SCLT01.mycompany.com",
			"softwareType": "IOS-XE",
			"location": "CLT",
			"mgmtAddress": "10.32.1.1",
			"deviceType": "switch"
		},
		{
			"hostname": "RCLT01.mycompany.com",
			"softwareType": "IOS",
			"location": "CLT",
			"mgmtAddress": "10.32.2.1",
			"deviceType": "switch"
		},
		{
			"hostname": "RRDU01.mycompany.com",
			"softwareType": "NX-OS",
			"location": "RDU",
			"mgmtAddress": "10.33.2.1",
			"deviceType": "router"
		}
	]
}`

// Data is struct for the fake API response
type Data struct {
	Devices []backend.Device `json:"devices"`
}

// Mock stands in for a device API and always returns the same five devices
type Mock struct {
	host     string
	username string
}

// New creates a new Mock source. Credentials are accepted the same way
// a real API client would take them but never used.
func New(host, username, password string) *Mock {
	return &Mock{host: host, username: username}
}

// Devices implements backend.Source
func (m *Mock) Devices(ctx context.Context, fn func(backend.Device) error) error {
	log.Debugf("pretending to query %s as %s", m.host, m.username)
	data, err := read(bytes.NewBufferString(payload))
	if err != nil {
		return err
	}
	for _, device := range data.Devices {
		if err := fn(device); err != nil {
			return err
		}
	}
	return nil
}

func read(r io.Reader) (*Data, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data := new(Data)
	err = json.Unmarshal(b, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
