package switchbot

import "context"

// Client ties a Service to the device directory loaded from it.
type Client struct {
	svc     *Service
	devices *DeviceList
}

// NewClient creates a client for the given service. Call LoadDevices
// before using the device list.
func NewClient(svc *Service) *Client {
	return &Client{svc: svc, devices: &DeviceList{}}
}

// NewClientForTest creates an offline client with n synthetic devices
// and no service attached.
func NewClientForTest(n int) *Client {
	client := &Client{devices: &DeviceList{}}
	for i := 1; i <= n; i++ {
		client.devices.Append(newTestDevice(i))
	}
	return client
}

// Service returns the attached service, nil for offline clients.
func (c *Client) Service() *Service {
	return c.svc
}

// Devices returns the device directory.
func (c *Client) Devices() *DeviceList {
	return c.devices
}

// LoadDevices fetches the device directory from the service and
// replaces the current list.
func (c *Client) LoadDevices(ctx context.Context) error {
	if c.svc == nil {
		return ErrNoService
	}
	devices, err := c.svc.LoadDevices(ctx)
	if err != nil {
		return err
	}
	c.devices = devices
	return nil
}
