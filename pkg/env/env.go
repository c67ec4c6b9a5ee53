// Package env provides the identity of this simulator instance and
// where to reach the broker.
package env

import (
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
)

// AppID salts the machine ID so it isn't exposed directly.
const AppID = "uart.go"

// Config provides common options shared by commands.
type Config struct {
	// ID names this instance in MQTT topics.
	ID string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

// DefaultMQTTBrokerURL is used when UART_MQTT_URL is not set.
const DefaultMQTTBrokerURL = "mqtt://localhost:1883/uart/"

var defaultConfig = Config{
	MQTTBrokerURL: DefaultMQTTBrokerURL,
}

func init() {
	if val := os.Getenv("UART_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.ID = MachineID()
}

// MachineID retrieves the ID identifying the machine, or "uart" when
// unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil || len(id) < 12 {
		return "uart"
	}
	return id[:12]
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Instance ID used in MQTT topics")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
