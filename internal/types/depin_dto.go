package types

type RegisterDeviceReq struct {
	DeviceId   string  `json:"device_id"`
	Name       string  `json:"name,optional"`
	DeviceType string  `json:"device_type"`
	Location   string  `json:"location,optional"`
	CapacityKw float64 `json:"capacity_kw,optional"`
}

type Device struct {
	Id         string  `json:"id"`
	DeviceId   string  `json:"device_id"`
	Name       string  `json:"name,omitempty"`
	DeviceType string  `json:"device_type"`
	Status     string  `json:"status"`
	Location   string  `json:"location,omitempty"`
	CapacityKw float64 `json:"capacity_kw"`
	TotalKwh   float64 `json:"total_kwh"`
	UptimePct  float64 `json:"uptime_pct"`
	LastSeenAt string  `json:"last_seen_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// RegisterDeviceResp carries the device key. It is shown once and only its hash is stored.
type RegisterDeviceResp struct {
	Device    Device `json:"device"`
	DeviceKey string `json:"device_key"`
}

type ListDevicesResp struct {
	Devices []Device `json:"devices"`
}

type DeviceEventReq struct {
	DeviceId  string   `json:"device_id"`
	EventType string   `json:"event_type"`
	Kwh       float64  `json:"kwh,optional"`
	UptimePct *float64 `json:"uptime_pct,optional"`
	// DeviceKey may also be sent in the configured device key header.
	DeviceKey string `json:"device_key,optional"`
}

type Reward struct {
	Id          string  `json:"id"`
	DeviceId    string  `json:"device_id"`
	Kwh         float64 `json:"kwh"`
	Rate        float64 `json:"rate"`
	Multiplier  float64 `json:"multiplier"`
	UptimeBonus float64 `json:"uptime_bonus"`
	Amount      float64 `json:"amount"`
	CreatedAt   string  `json:"created_at"`
}

type DeviceEventResp struct {
	DeviceId string  `json:"device_id"`
	Status   string  `json:"status"`
	TotalKwh float64 `json:"total_kwh"`
	Reward   *Reward `json:"reward,omitempty"`
}

type RewardsReq struct {
	Limit int `form:"limit,default=50,range=[1:500]"`
}

type RewardsResp struct {
	TotalRewards float64  `json:"total_rewards"`
	RewardCount  int64    `json:"reward_count"`
	Recent       []Reward `json:"recent"`
}
