package types

type EarningsReq struct {
	Devices      int     `json:"devices"`
	KwhPerDevice float64 `json:"kwh_per_device"`
	Rate         float64 `json:"rate,optional"`
	DeviceType   string  `json:"device_type,optional"`
	// Multiplier overrides the device type multiplier when set.
	Multiplier float64 `json:"multiplier,optional"`
	UptimePct  float64 `json:"uptime_pct,default=100"`
}

type EarningsResp struct {
	Daily       float64 `json:"daily"`
	Monthly     float64 `json:"monthly"`
	Yearly      float64 `json:"yearly"`
	Rate        float64 `json:"rate"`
	Multiplier  float64 `json:"multiplier"`
	UptimeBonus float64 `json:"uptime_bonus"`
}

type RoiReq struct {
	InvestmentUsd    float64 `json:"investment_usd"`
	DailyEarningsUsd float64 `json:"daily_earnings_usd"`
	OperatingCostUsd float64 `json:"operating_cost_usd,optional"` // per day
}

type RoiResp struct {
	NetDailyUsd  float64 `json:"net_daily_usd"`
	PaybackDays  float64 `json:"payback_days"` // -1 when never paid back
	AnnualRoiPct float64 `json:"annual_roi_pct"`
	Profitable   bool    `json:"profitable"`
}

type YieldReq struct {
	Principal        float64 `json:"principal"`
	Apy              float64 `json:"apy"` // percent
	Days             int     `json:"days"`
	CompoundsPerYear int     `json:"compounds_per_year,default=365"`
}

type YieldResp struct {
	FinalValue   float64 `json:"final_value"`
	Earnings     float64 `json:"earnings"`
	EffectiveApy float64 `json:"effective_apy"`
}
