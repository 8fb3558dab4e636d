package switchbot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceString(t *testing.T) {
	device := newTestDevice(1)
	assert.Equal(t, "Device 1 (test, ID:device1)", device.String())

	remote := &Device{deviceID: "remote1", deviceName: "TV", remoteType: "TV"}
	assert.Equal(t, "TV (TV, ID:remote1)", remote.String())
}

func TestDeviceIsRemote(t *testing.T) {
	device := &Device{deviceType: "Bot"}
	assert.False(t, device.IsRemote())
	assert.Equal(t, "Bot", device.DeviceTypeOrRemoteType())

	remote := &Device{remoteType: "TV"}
	assert.True(t, remote.IsRemote())
	assert.Equal(t, "TV", remote.DeviceTypeOrRemoteType())
}

func TestDeviceStatusByKey(t *testing.T) {
	device := newTestDevice(1)
	device.status = map[string]any{"power": "on", "battery": float64(80)}

	value, ok := device.StatusByKey("power")
	assert.True(t, ok)
	assert.Equal(t, "on", value)

	_, ok = device.StatusByKey("missing")
	assert.False(t, ok)
}

func TestDeviceEvalCondition(t *testing.T) {
	device := newTestDevice(1)
	device.status = map[string]any{
		"power":   "on",
		"battery": float64(80),
		"hot":     true,
	}

	tests := []struct {
		condition string
		want      bool
	}{
		{"power=on", true},
		{"power=off", false},
		{"battery>50", true},
		{"battery<50", false},
		{"hot", true},
	}
	for _, test := range tests {
		result, err := device.EvalCondition(test.condition)
		require.NoError(t, err, test.condition)
		assert.Equal(t, test.want, result, test.condition)
	}

	// A missing key is an error, not false.
	_, err := device.EvalCondition("missing=on")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = device.EvalCondition("power=!")
	assert.Error(t, err)
}

func TestDeviceWriteStatusTo(t *testing.T) {
	device := newTestDevice(1)
	device.status = map[string]any{
		"power":   "on",
		"battery": float64(80),
		"hot":     true,
	}
	var sb strings.Builder
	require.NoError(t, device.WriteStatusTo(&sb))
	assert.Equal(t, "battery: 80\nhot: true\npower: on\n", sb.String())
}

func TestDeviceWriteDetailTo(t *testing.T) {
	device := newTestDevice(1)
	device.status = map[string]any{"power": "on"}
	var sb strings.Builder
	require.NoError(t, device.WriteDetailTo(&sb))
	assert.Equal(t, "Name: Device 1\nID: device1\nType: test\nStatus:\n  power: on\n", sb.String())

	remote := &Device{deviceID: "remote1", deviceName: "TV", remoteType: "TV"}
	sb.Reset()
	require.NoError(t, remote.WriteDetailTo(&sb))
	assert.Equal(t, "Name: TV\nID: remote1\nRemote Type: TV\n", sb.String())
}

func TestDeviceCommandNoService(t *testing.T) {
	device := newTestDevice(1)
	command := ParseCommand("turnOn")
	err := device.Command(context.Background(), nil, &command)
	assert.ErrorIs(t, err, ErrNoService)

	err = device.UpdateStatus(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoService)
}

func TestDeviceList(t *testing.T) {
	list := &DeviceList{}
	assert.True(t, list.IsEmpty())
	assert.Equal(t, 0, list.Len())

	list.Append(newTestDevice(1), newTestDevice(2))
	assert.False(t, list.IsEmpty())
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "device1", list.At(0).DeviceID())
	assert.Equal(t, "device2", list.At(1).DeviceID())

	assert.Equal(t, 1, list.IndexByDeviceID("device2"))
	assert.Equal(t, -1, list.IndexByDeviceID("nope"))
}

func TestClientForTest(t *testing.T) {
	client := NewClientForTest(3)
	assert.Nil(t, client.Service())
	assert.Equal(t, 3, client.Devices().Len())
	assert.Equal(t, "device1", client.Devices().At(0).DeviceID())

	err := client.LoadDevices(context.Background())
	assert.ErrorIs(t, err, ErrNoService)
}
