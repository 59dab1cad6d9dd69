package types

type BalancesReq struct {
	Address string   `json:"address"`
	Chains  []string `json:"chains,optional"`
}

type TokenBalance struct {
	Symbol          string  `json:"symbol"`
	CoinId          string  `json:"coin_id"`
	ContractAddress string  `json:"contract_address,omitempty"`
	Balance         float64 `json:"balance"`
	PriceUsd        float64 `json:"price_usd"`
	ValueUsd        float64 `json:"value_usd"`
}

type ChainBalances struct {
	Chain    string         `json:"chain"`
	ChainId  int64          `json:"chain_id"`
	Native   TokenBalance   `json:"native"`
	Tokens   []TokenBalance `json:"tokens"`
	TotalUsd float64        `json:"total_usd"`
}

type BalancesResp struct {
	Address      string          `json:"address"`
	Chains       []ChainBalances `json:"chains"`
	TotalUsd     float64         `json:"total_usd"`
	FailedChains []string        `json:"failed_chains"`
}

type WalletTxReq struct {
	Address string `form:"address"`
	Chain   string `form:"chain,default=ethereum"`
	Page    int    `form:"page,default=1,range=[1:100]"`
	Offset  int    `form:"offset,default=25,range=[1:100]"`
}

type WalletTx struct {
	Hash         string  `json:"hash"`
	BlockNumber  string  `json:"block_number"`
	Timestamp    int64   `json:"timestamp"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	Value        float64 `json:"value"`
	FeeNative    float64 `json:"fee_native"`
	Failed       bool    `json:"failed"`
	FunctionName string  `json:"function_name,omitempty"`
	ExplorerUrl  string  `json:"explorer_url,omitempty"`
}

type WalletTxResp struct {
	Address      string     `json:"address"`
	Chain        string     `json:"chain"`
	Transactions []WalletTx `json:"transactions"`
}

type ConnectWalletReq struct {
	Address    string `json:"address"`
	Chain      string `json:"chain"`
	WalletType string `json:"wallet_type,default=metamask"`
}

type WalletConnection struct {
	Id          string `json:"id"`
	Address     string `json:"address"`
	Chain       string `json:"chain"`
	WalletType  string `json:"wallet_type"`
	ConnectedAt string `json:"connected_at"`
}

type ConnectWalletResp struct {
	Connection WalletConnection `json:"connection"`
}

type DisconnectWalletReq struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

type DisconnectWalletResp struct {
	Disconnected bool `json:"disconnected"`
}

type ConnectionsResp struct {
	Connections []WalletConnection `json:"connections"`
}
