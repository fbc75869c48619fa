package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/lan-wake-core/internal/infrastructure/config"
	"github.com/nerrad567/lan-wake-core/internal/status"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// stateTopic carries this service's retained online/offline marker.
const stateTopic = "lanwake/bridge/state"

// Logger interface for optional logging support.
// Compatible with logging.Logger.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client publishes device status events to an MQTT broker.
//
// It implements status.Sink, so it plugs straight into the status cache:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	cache.AddSink(client)
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	connected bool
	connMu    sync.RWMutex

	logger   Logger
	loggerMu sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// It configures a Last Will on the bridge state topic so subscribers can
// detect an unexpected LanWake exit, enables auto-reconnect, and publishes
// a retained "online" marker once connected.
//
// Returns ErrConnectionFailed if the broker cannot be reached within the
// connect timeout.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		logger: noopLogger{},
	}

	opts := buildClientOptions(cfg)
	opts.SetWill(stateTopic, statePayload("offline", cfg.Broker.ClientID), 1, true)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnectHandler runs asynchronously and may not have executed
	// yet; set connected here so IsConnected() is immediately true.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// buildClientOptions creates paho MQTT options from LanWake config.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))

	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}

	return opts
}

// statePayload builds the bridge state JSON.
func statePayload(state, clientID string) string {
	return fmt.Sprintf(
		`{"state":%q,"client_id":%q,"timestamp":%q}`,
		state, clientID, time.Now().UTC().Format(time.RFC3339),
	)
}

// handleConnect is called when the connection is established or restored.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	token := c.client.Publish(stateTopic, 1, true, statePayload("online", c.cfg.Broker.ClientID))
	if token.WaitTimeout(defaultPublishTimeout) && token.Error() != nil {
		c.log().Warn("failed to publish online state", "error", token.Error())
	}
}

// handleDisconnect is called when the connection drops. Paho reconnects in
// the background; the retained Will tells subscribers we are gone.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.log().Warn("mqtt connection lost", "error", err)
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

// SetLogger sets the logger for connection and publish diagnostics.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

func (c *Client) log() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// StatusTopic returns the retained status topic for a device name.
func StatusTopic(name string) string {
	return fmt.Sprintf("lanwake/device/%s/status", name)
}

// RecordStatus publishes a probe result as retained JSON.
//
// Implements status.Sink. Failures are logged and dropped: the next probe
// republishes the current state anyway, and a broker outage must never
// affect probing.
func (c *Client) RecordStatus(name string, rec status.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		c.log().Error("failed to encode status record", "device", name, "error", err)
		return
	}

	if err := c.publish(StatusTopic(name), payload); err != nil {
		c.log().Warn("failed to publish device status", "device", name, "error", err)
	}
}

// publish sends one message with the configured QoS, retained.
func (c *Client) publish(topic string, payload []byte) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, byte(c.cfg.QoS), true, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close publishes a graceful offline state and disconnects.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.client.Publish(stateTopic, 1, true, statePayload("offline", c.cfg.Broker.ClientID))
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
