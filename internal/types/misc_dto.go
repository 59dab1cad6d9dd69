package types

type YieldPoolsReq struct {
	Chain      string  `form:"chain,optional"`
	Project    string  `form:"project,optional"`
	Stablecoin bool    `form:"stablecoin,optional"`
	MinTvl     float64 `form:"min_tvl,default=1000000"`
	Limit      int     `form:"limit,default=20,range=[1:200]"`
}

type YieldPool struct {
	Pool       string  `json:"pool"`
	Chain      string  `json:"chain"`
	Project    string  `json:"project"`
	Symbol     string  `json:"symbol"`
	TvlUsd     float64 `json:"tvl_usd"`
	Apy        float64 `json:"apy"`
	ApyBase    float64 `json:"apy_base"`
	ApyReward  float64 `json:"apy_reward"`
	Stablecoin bool    `json:"stablecoin"`
	IlRisk     string  `json:"il_risk,omitempty"`
}

type YieldPoolsResp struct {
	Pools []YieldPool `json:"pools"`
	Total int         `json:"total"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatReq struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatResp struct {
	Reply string `json:"reply"`
}

type Profile struct {
	Id             string `json:"id"`
	DisplayName    string `json:"display_name"`
	AvatarUrl      string `json:"avatar_url"`
	PreferredChain string `json:"preferred_chain"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

type UpdateProfileReq struct {
	DisplayName    string `json:"display_name,optional"`
	AvatarUrl      string `json:"avatar_url,optional"`
	PreferredChain string `json:"preferred_chain,optional"`
}

type HealthResp struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}
