package backend

import (
	"context"
	"fmt"

	"github.com/viert/netinv/log"
)

// PageSize is the number of devices requested per page
const PageSize = 500

// Device is a single device record exactly as returned by a source
type Device map[string]interface{}

// Hostname returns the device hostname field if it's a non-empty string
func (d Device) Hostname() (string, bool) {
	v, found := d["hostname"]
	if !found {
		return "", false
	}
	hostname, ok := v.(string)
	if !ok || hostname == "" {
		return "", false
	}
	return hostname, true
}

// Source represents a device source interface. Devices calls fn for
// every device in source order and stops at the first error
type Source interface {
	Devices(ctx context.Context, fn func(Device) error) error
}

// Pager fetches a single page of devices
type Pager interface {
	DeviceList(ctx context.Context, offset, limit int) ([]Device, error)
}

// Walk requests pages of PageSize devices starting at offset 0 until
// a page with no devices is returned. Pager errors are returned as is.
func Walk(ctx context.Context, p Pager, fn func(Device) error) error {
	offset := 0
	for {
		page, err := p.DeviceList(ctx, offset, PageSize)
		if err != nil {
			return err
		}
		log.Debugf("page at offset %d: %d devices", offset, len(page))
		if len(page) == 0 {
			return nil
		}
		for _, device := range page {
			if err := fn(device); err != nil {
				return err
			}
		}
		offset += PageSize
	}
}

// Collect reads all devices of a source into a slice
func Collect(ctx context.Context, src Source) ([]Device, error) {
	devices := make([]Device, 0)
	err := src.Devices(ctx, func(d Device) error {
		devices = append(devices, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting devices: %w", err)
	}
	return devices, nil
}
