package switchbot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Device is a single device (physical or virtual infrared remote)
// known to the SwitchBot API.
//
// A Device holds no reference back to the Service that produced it;
// the service is passed explicitly into every operation that needs it.
// The status map and the last-command timestamp are guarded so that
// concurrent dispatch over many devices stays safe.
type Device struct {
	deviceID    string
	deviceName  string
	deviceType  string
	remoteType  string
	hubDeviceID string

	mu              sync.RWMutex
	status          map[string]any
	lastCommandTime time.Time
}

func newTestDevice(index int) *Device {
	return &Device{
		deviceID:   fmt.Sprintf("device%d", index),
		deviceName: fmt.Sprintf("Device %d", index),
		deviceType: "test",
	}
}

// DeviceID returns the device ID.
func (d *Device) DeviceID() string {
	return d.deviceID
}

// DeviceName returns the name configured in the SwitchBot app.
func (d *Device) DeviceName() string {
	return d.deviceName
}

// DeviceType returns the device type. Empty for infrared remotes.
func (d *Device) DeviceType() string {
	return d.deviceType
}

// RemoteType returns the device type of an infrared remote device.
func (d *Device) RemoteType() string {
	return d.remoteType
}

// IsRemote reports whether this is a virtual infrared remote device.
func (d *Device) IsRemote() bool {
	return d.remoteType != ""
}

// DeviceTypeOrRemoteType returns RemoteType for remotes, DeviceType
// otherwise.
func (d *Device) DeviceTypeOrRemoteType() string {
	if d.IsRemote() {
		return d.remoteType
	}
	return d.deviceType
}

// HubDeviceID returns the parent hub ID.
func (d *Device) HubDeviceID() string {
	return d.hubDeviceID
}

// Command sends a control command through the service.
//
// Commands to infrared remote devices are paced: at least the
// service's remote command interval passes between two commands to the
// same device, measured against this device's last send time.
func (d *Device) Command(ctx context.Context, svc *Service, cmd *CommandRequest) error {
	if svc == nil {
		return ErrNoService
	}
	if d.IsRemote() {
		d.waitRemoteInterval(svc.remoteInterval)
	}
	if err := svc.Command(ctx, d.deviceID, cmd); err != nil {
		return err
	}
	if d.IsRemote() {
		d.mu.Lock()
		d.lastCommandTime = time.Now()
		d.mu.Unlock()
	}
	return nil
}

func (d *Device) waitRemoteInterval(minInterval time.Duration) {
	if minInterval <= 0 {
		return
	}
	d.mu.RLock()
	last := d.lastCommandTime
	d.mu.RUnlock()
	if last.IsZero() {
		return
	}
	if elapsed := time.Since(last); elapsed < minInterval {
		wait := minInterval - elapsed
		slog.Debug("device: pacing remote command", "device", d.deviceID, "wait", wait)
		time.Sleep(wait)
	}
}

// UpdateStatus fetches the device status from the service and replaces
// the local status map read by StatusByKey and EvalCondition.
func (d *Device) UpdateStatus(ctx context.Context, svc *Service) error {
	if svc == nil {
		return ErrNoService
	}
	status, err := svc.Status(ctx, d.deviceID)
	if err != nil {
		return err
	}
	if status == nil {
		slog.Warn("device: the status query succeeded with no status", "device", d.deviceID)
		return nil
	}
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
	return nil
}

// StatusByKey returns the typed value of a status key (bool, float64,
// or string as decoded from JSON). UpdateStatus must have been called
// first.
func (d *Device) StatusByKey(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.status[key]
	return value, ok
}

// EvalCondition parses and evaluates a conditional expression against
// this device's status. A missing status key is an error, not false.
// UpdateStatus must have been called first.
func (d *Device) EvalCondition(condition string) (bool, error) {
	expr, err := ParseCondition(condition)
	if err != nil {
		return false, err
	}
	value, ok := d.StatusByKey(expr.Key())
	if !ok {
		return false, fmt.Errorf("no status key %q for %s", expr.Key(), d)
	}
	return expr.Evaluate(value)
}

// WriteStatusTo writes the status map, one "key: value" line per
// entry, in sorted key order.
func (d *Device) WriteStatusTo(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, key := range sortedKeys(d.status) {
		if _, err := fmt.Fprintf(w, "%s: %v\n", key, d.status[key]); err != nil {
			return err
		}
	}
	return nil
}

// String returns the one-line display form used in device listings.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s, ID:%s)", d.deviceName, d.DeviceTypeOrRemoteType(), d.deviceID)
}

// WriteDetailTo writes the multi-line device description shown when a
// single device is selected.
func (d *Device) WriteDetailTo(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", d.deviceName)
	fmt.Fprintf(&sb, "ID: %s\n", d.deviceID)
	if d.IsRemote() {
		fmt.Fprintf(&sb, "Remote Type: %s\n", d.remoteType)
	} else {
		fmt.Fprintf(&sb, "Type: %s\n", d.deviceType)
	}
	d.mu.RLock()
	if len(d.status) > 0 {
		sb.WriteString("Status:\n")
		for _, key := range sortedKeys(d.status) {
			fmt.Fprintf(&sb, "  %s: %v\n", key, d.status[key])
		}
	}
	d.mu.RUnlock()
	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
