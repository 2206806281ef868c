package fiware

const urnPrefix string = "urn:ngsi-ld:"

const (
	//BeachTypeName is a type name constant for Beach
	BeachTypeName string = "Beach"
	//BeachIDPrefix contains the mandatory prefix for Beach ID:s
	BeachIDPrefix string = urnPrefix + BeachTypeName + ":"
	//DeviceTypeName is a type name constant for Device
	DeviceTypeName string = "Device"
	//DeviceIDPrefix contains the mandatory prefix for Device ID:s
	DeviceIDPrefix string = urnPrefix + DeviceTypeName + ":"
	//IndoorEnvironmentObservedTypeName is a type name constant for IndoorEnvironmentObserved
	IndoorEnvironmentObservedTypeName string = "IndoorEnvironmentObserved"
	//IndoorEnvironmentObservedIDPrefix contains the mandatory prefix for IndoorEnvironmentObserved ID:s
	IndoorEnvironmentObservedIDPrefix string = urnPrefix + IndoorEnvironmentObservedTypeName + ":"
	//WaterConsumptionObservedTypeName is a type name constant for WaterConsumptionObserved
	WaterConsumptionObservedTypeName string = "WaterConsumptionObserved"
	//WaterConsumptionObservedIDPrefix contains the mandatory prefix for WaterConsumptionObserved ID:s
	WaterConsumptionObservedIDPrefix string = urnPrefix + WaterConsumptionObservedTypeName + ":"
	//WeatherObservedTypeName is a type name constant for WeatherObserved
	WeatherObservedTypeName string = "WeatherObserved"
	//WeatherObservedIDPrefix contains the mandatory prefix for WeatherObserved ID:s
	WeatherObservedIDPrefix string = urnPrefix + WeatherObservedTypeName + ":"
)
