package simulator

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	is, config := setupConfigTest(t)

	is.Equal(config.ContextBroker, "http://lolcathost:1026")
	is.Equal(config.Tenant, "testtenant")
	is.Equal(len(config.Pools), 2) // should have two device pools
}

func TestLoadNotificationEndpoint(t *testing.T) {
	is, config := setupConfigTest(t)

	is.Equal(config.Notification.Endpoint, "http://lolcathost:8668/v2/notify")
}

func TestLoadDevicePool(t *testing.T) {
	is, config := setupConfigTest(t)
	pool := config.Pools[0]

	is.Equal(pool.EntityType, "WeatherObserved")
	is.Equal(pool.Devices, 3)
	is.Equal(pool.Interval, 30.0)
	is.Equal(len(pool.Attributes), 2) // should find two attribute specs
}

func TestLoadAttributeSpecs(t *testing.T) {
	is, config := setupConfigTest(t)
	attrs := config.Pools[0].Attributes

	is.Equal(attrs[0].Name, "temperature")
	is.Equal(attrs[0].Kind, "number")
	is.Equal(attrs[0].Base, 20.0)

	is.Equal(attrs[1].Name, "windDirection")
	is.Equal(attrs[1].Kind, "text")
	is.Equal(attrs[1].Choices, []string{"N", "E", "S", "W"})
}

func TestLoadSampleCap(t *testing.T) {
	is, config := setupConfigTest(t)

	is.Equal(config.Pools[0].Samples, 0) // uncapped unless configured
	is.Equal(config.Pools[1].Samples, 10)
}

func setupConfigTest(t *testing.T) (*is.I, *Config) {
	is := is.New(t)
	cfgData := bytes.NewBuffer([]byte(configFile))
	config, err := LoadConfiguration(cfgData)
	is.NoErr(err)

	return is, config
}

var configFile string = `
contextBroker: http://lolcathost:1026
tenant: testtenant
notification:
  endpoint: http://lolcathost:8668/v2/notify
pools:
  - entityType: WeatherObserved
    devices: 3
    interval: 30
    attributes:
      - name: temperature
        kind: number
        base: 20
      - name: windDirection
        kind: text
        choices: [N, E, S, W]
  - entityType: Device
    devices: 2
    samples: 10
    attributes:
      - name: batteryLevel
        kind: number
        base: 0.5
`
