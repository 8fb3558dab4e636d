package switchbot

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kojiishi/switchbot-go/pkg/log"
)

// DefaultHost is the production SwitchBot API endpoint.
const DefaultHost = "https://api.switch-bot.com"

// DefaultRemoteCommandInterval is the minimum spacing between commands
// to the same infrared remote device. The hub drops remote commands
// that arrive faster than it can replay them.
const DefaultRemoteCommandInterval = 500 * time.Millisecond

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Token and Secret authenticate with the SwitchBot API.
	Token  string
	Secret string

	// Host overrides the API endpoint. Defaults to DefaultHost.
	Host string

	// RemoteCommandInterval is the minimum interval between commands
	// to one infrared remote device. Zero selects
	// DefaultRemoteCommandInterval; negative disables pacing.
	RemoteCommandInterval time.Duration

	// HTTPClient overrides the HTTP client. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// EventLogger receives one log.Event per API call. Defaults to
	// log.NoopLogger.
	EventLogger log.Logger
}

// Service is the authenticated SwitchBot API client. It is safe for
// concurrent use.
type Service struct {
	client         *http.Client
	host           string
	token          string
	secret         string
	remoteInterval time.Duration
	events         log.Logger
}

// NewService creates a Service from the given configuration.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		client:         cfg.HTTPClient,
		host:           cfg.Host,
		token:          cfg.Token,
		secret:         cfg.Secret,
		remoteInterval: cfg.RemoteCommandInterval,
		events:         cfg.EventLogger,
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.host == "" {
		s.host = DefaultHost
	}
	if s.remoteInterval == 0 {
		s.remoteInterval = DefaultRemoteCommandInterval
	} else if s.remoteInterval < 0 {
		s.remoteInterval = 0
	}
	if s.events == nil {
		s.events = log.NoopLogger{}
	}
	return s
}

// responseEnvelope is the common wrapper of every API response.
type responseEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Body       json.RawMessage `json:"body"`
}

// err converts a non-success envelope into an *APIError.
// All statusCode values other than 100 are errors.
func (e *responseEnvelope) err() error {
	if e.StatusCode != 100 {
		return &APIError{StatusCode: e.StatusCode, Message: e.Message}
	}
	return nil
}

type deviceJSON struct {
	DeviceID    string `json:"deviceId"`
	DeviceName  string `json:"deviceName"`
	DeviceType  string `json:"deviceType"`
	RemoteType  string `json:"remoteType"`
	HubDeviceID string `json:"hubDeviceId"`
}

func (j *deviceJSON) device() *Device {
	return &Device{
		deviceID:    j.DeviceID,
		deviceName:  j.DeviceName,
		deviceType:  j.DeviceType,
		remoteType:  j.RemoteType,
		hubDeviceID: j.HubDeviceID,
	}
}

type deviceListBody struct {
	DeviceList         []deviceJSON `json:"deviceList"`
	InfraredRemoteList []deviceJSON `json:"infraredRemoteList"`
}

// LoadDevices fetches the device directory: physical devices first,
// then infrared remotes, each in API order.
func (s *Service) LoadDevices(ctx context.Context) (*DeviceList, error) {
	var envelope responseEnvelope
	if err := s.do(ctx, http.MethodGet, "/v1.1/devices", nil, "", &envelope); err != nil {
		return nil, err
	}
	if err := envelope.err(); err != nil {
		return nil, err
	}
	var body deviceListBody
	if err := json.Unmarshal(envelope.Body, &body); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}
	devices := &DeviceList{}
	for i := range body.DeviceList {
		devices.Append(body.DeviceList[i].device())
	}
	for i := range body.InfraredRemoteList {
		devices.Append(body.InfraredRemoteList[i].device())
	}
	slog.Debug("service: loaded devices", "count", devices.Len())
	return devices, nil
}

// Command sends a device control command.
func (s *Service) Command(ctx context.Context, deviceID string, cmd *CommandRequest) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	slog.Debug("service: command", "device", deviceID, "request", string(body))
	path := fmt.Sprintf("/v1.1/devices/%s/commands", deviceID)
	var envelope responseEnvelope
	if err := s.do(ctx, http.MethodPost, path, body, deviceID, &envelope); err != nil {
		return err
	}
	return envelope.err()
}

// statusMetaKeys are the identity fields the status response repeats;
// they are stripped so only status keys remain.
var statusMetaKeys = []string{"deviceId", "deviceName", "deviceType", "remoteType", "hubDeviceId"}

// Status fetches the device status map. Returns nil when the query
// succeeds but carries no status body (some hub-only devices do this).
func (s *Service) Status(ctx context.Context, deviceID string) (map[string]any, error) {
	path := fmt.Sprintf("/v1.1/devices/%s/status", deviceID)
	var envelope responseEnvelope
	if err := s.do(ctx, http.MethodGet, path, nil, deviceID, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.err(); err != nil {
		return nil, err
	}
	if len(envelope.Body) == 0 || string(envelope.Body) == "null" {
		return nil, nil
	}
	var status map[string]any
	if err := json.Unmarshal(envelope.Body, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	for _, key := range statusMetaKeys {
		delete(status, key)
	}
	return status, nil
}

// do performs one signed API call and decodes the response envelope.
func (s *Service) do(ctx context.Context, method, path string, body []byte, deviceID string, out *responseEnvelope) error {
	url := s.host + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.sign(req)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.events.Log(log.Event{
			Timestamp: time.Now(),
			Method:    method,
			URL:       url,
			DeviceID:  deviceID,
			Error:     err.Error(),
		})
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	s.events.Log(log.Event{
		Timestamp:  time.Now(),
		Method:     method,
		URL:        url,
		DeviceID:   deviceID,
		HTTPStatus: resp.StatusCode,
		Size:       len(data),
		Elapsed:    elapsed,
	})
	slog.Debug("service: response", "url", url, "status", resp.StatusCode, "elapsed", elapsed)
	return json.Unmarshal(data, out)
}

// sign adds the SwitchBot v1.1 authentication headers: the token, a
// millisecond timestamp, a UUID nonce, and a base64 HMAC-SHA256
// signature over token+t+nonce keyed with the secret.
func (s *Service) sign(req *http.Request) {
	t := strconv.FormatInt(time.Now().UnixMilli(), 10)
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(s.token))
	mac.Write([]byte(t))
	mac.Write([]byte(nonce))
	sign := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization", s.token)
	req.Header.Set("t", t)
	req.Header.Set("sign", sign)
	req.Header.Set("nonce", nonce)
}
