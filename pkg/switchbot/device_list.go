package switchbot

// DeviceList is the ordered device directory for a session. Physical
// devices come first, then infrared remotes, in API order; the 1-based
// display numbers users type are positions in this list.
type DeviceList struct {
	devices []*Device
}

// Len returns the number of devices.
func (l *DeviceList) Len() int {
	return len(l.devices)
}

// IsEmpty reports whether the list holds no devices.
func (l *DeviceList) IsEmpty() bool {
	return len(l.devices) == 0
}

// At returns the device at a 0-based index. The index must be in
// range, as guaranteed by selector resolution.
func (l *DeviceList) At(index int) *Device {
	return l.devices[index]
}

// Append adds devices at the end of the list.
func (l *DeviceList) Append(devices ...*Device) {
	l.devices = append(l.devices, devices...)
}

// IndexByDeviceID returns the position of the device with the given
// ID, or -1 if no device matches.
func (l *DeviceList) IndexByDeviceID(deviceID string) int {
	for i, device := range l.devices {
		if device.DeviceID() == deviceID {
			return i
		}
	}
	return -1
}
