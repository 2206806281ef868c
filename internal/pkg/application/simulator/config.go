package simulator

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type AttributeSpec struct {
	Name string `yaml:"name"`
	// Kind selects the value generator, "number" for readings within one of
	// base or "text" for a random pick from choices
	Kind    string   `yaml:"kind"`
	Base    float64  `yaml:"base"`
	Choices []string `yaml:"choices"`
}

type DevicePoolConfig struct {
	EntityType string `yaml:"entityType"`
	Devices    int    `yaml:"devices"`
	// Interval is the time between reading batches, in seconds
	Interval float64 `yaml:"interval"`
	// Samples caps the number of batches to send, zero means no cap
	Samples    int             `yaml:"samples"`
	Attributes []AttributeSpec `yaml:"attributes"`
}

type NotificationInfo struct {
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	ContextBroker string             `yaml:"contextBroker"`
	Tenant        string             `yaml:"tenant"`
	Notification  NotificationInfo   `yaml:"notification"`
	Pools         []DevicePoolConfig `yaml:"pools"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}
