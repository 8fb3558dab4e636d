// Package switchbot is a client library for the SwitchBot v1.1 cloud
// API. It provides the device directory, the textual command codec,
// conditional expressions over device status, the signed HTTP service,
// and command help scraped from the vendor documentation.
package switchbot
