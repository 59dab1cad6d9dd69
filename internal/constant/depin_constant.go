package constant

type DeviceType string

const (
	DeviceSolar     DeviceType = "solar"
	DeviceBattery   DeviceType = "battery"
	DeviceEVCharger DeviceType = "ev_charger"
	DeviceSensor    DeviceType = "sensor"
)

// deviceMultipliers are the reward multipliers per device type.
var deviceMultipliers = map[DeviceType]float64{
	DeviceSolar:     1.0,
	DeviceBattery:   1.2,
	DeviceEVCharger: 1.5,
	DeviceSensor:    0.5,
}

// DeviceMultiplier returns the multiplier for a device type and whether it is known.
func DeviceMultiplier(deviceType string) (float64, bool) {
	m, ok := deviceMultipliers[DeviceType(deviceType)]
	return m, ok
}

// IsDeviceTypeSupported checks if a given device type can be registered.
func IsDeviceTypeSupported(deviceType string) bool {
	_, ok := deviceMultipliers[DeviceType(deviceType)]
	return ok
}

const (
	DeviceStatusRegistered = "registered"
	DeviceStatusOnline     = "online"
	DeviceStatusOffline    = "offline"
)

const (
	DeviceEventHeartbeat = "heartbeat"
	DeviceEventMetric    = "metric"
	DeviceEventOffline   = "offline"
)
