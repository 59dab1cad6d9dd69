package types

// EstimateFeeReq asks for the cost of a Wormhole transfer between two chains.
type EstimateFeeReq struct {
	SourceChain string  `json:"source_chain"`
	TargetChain string  `json:"target_chain"`
	Token       string  `json:"token"` // CoinGecko coin id, e.g. "usd-coin"
	Amount      float64 `json:"amount"`
	IncludeSwap bool    `json:"include_swap,optional"`
}

// FeeBreakdown is expressed in USD.
type FeeBreakdown struct {
	BridgeFee         float64 `json:"bridge_fee"`
	SourceGas         float64 `json:"source_gas"`
	DestinationGas    float64 `json:"destination_gas"`
	SwapFee           float64 `json:"swap_fee"`
	Total             float64 `json:"total"`
	PercentOfTransfer float64 `json:"percent_of_transfer"`
}

type EstimateFeeResp struct {
	SourceChain        string       `json:"source_chain"`
	TargetChain        string       `json:"target_chain"`
	Token              string       `json:"token"`
	Amount             float64      `json:"amount"`
	TokenPriceUsd      float64      `json:"token_price_usd"`
	TransferValueUsd   float64      `json:"transfer_value_usd"`
	Fees               FeeBreakdown `json:"fees"`
	AmountReceived     float64      `json:"amount_received"`
	SourceGasPriceGwei float64      `json:"source_gas_price_gwei"`
	GasPriceSource     string       `json:"gas_price_source"` // "rpc" or "fallback"
	EstimatedMinutes   int          `json:"estimated_minutes"`
}

type TransferStatusReq struct {
	TxHash string `json:"tx_hash"`
}

type TransferStatusResp struct {
	TxHash        string `json:"tx_hash"`
	Status        string `json:"status"`
	OperationId   string `json:"operation_id,omitempty"`
	HasVaa        bool   `json:"has_vaa"`
	TargetTxHash  string `json:"target_tx_hash,omitempty"`
	SourceChainId int    `json:"source_chain_id,omitempty"`
	TargetChainId int    `json:"target_chain_id,omitempty"`
	Tracked       bool   `json:"tracked"`
	CheckedAt     string `json:"checked_at"`
}

type ImportTxReq struct {
	TxHash        string `json:"tx_hash"`
	SourceChain   string `json:"source_chain"`
	TargetChain   string `json:"target_chain,optional"`
	WalletAddress string `json:"wallet_address,optional"`
	TokenSymbol   string `json:"token_symbol,optional"`
	Amount        string `json:"amount,optional"`
}

type BridgeTransaction struct {
	Id            string `json:"id"`
	TxHash        string `json:"tx_hash"`
	WalletAddress string `json:"wallet_address,omitempty"`
	SourceChain   string `json:"source_chain"`
	TargetChain   string `json:"target_chain,omitempty"`
	TokenSymbol   string `json:"token_symbol,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Status        string `json:"status"`
	OperationId   string `json:"operation_id,omitempty"`
	HasVaa        bool   `json:"has_vaa"`
	TargetTxHash  string `json:"target_tx_hash,omitempty"`
	ExplorerUrl   string `json:"explorer_url,omitempty"`
	LastCheckedAt string `json:"last_checked_at,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type ImportTxResp struct {
	Transaction BridgeTransaction `json:"transaction"`
}

type ListTxReq struct {
	Limit int `form:"limit,default=50,range=[1:200]"`
}

type ListTxResp struct {
	Transactions []BridgeTransaction `json:"transactions"`
}
