// Package tele_config is separate from tele to avoid import cycle with state.
package tele_config

type Config struct { //nolint:maligned
	Enabled bool `hcl:"enable"`
	// KioskId names MQTT topics and client, <=0 means staging.
	KioskId           int    `hcl:"kiosk_id"`
	LogDebug          bool   `hcl:"log_debug"`
	MqttBroker        string `hcl:"mqtt_broker"`
	MqttPassword      string `hcl:"mqtt_password"` // secret
	MqttLogDebug      bool   `hcl:"mqtt_log_debug"`
	KeepaliveSec      int    `hcl:"keepalive_sec"`
	NetworkTimeoutSec int    `hcl:"network_timeout_sec"`

	// set by state before Init
	PersistPath  string `hcl:"-"`
	BuildVersion string `hcl:"-"`
}
