package bridge

import (
	"context"
	"math/big"
	"time"

	"tempo/internal/chain"
	"tempo/internal/config"
	"tempo/internal/errorx"
	"tempo/internal/logic/calculator"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	GasPriceFromRpc      = "rpc"
	GasPriceFromFallback = "fallback"

	gasPriceTimeout = 5 * time.Second
	maxAmount       = 1e15
)

// FeeInputs are the numbers a fee breakdown is computed from.
type FeeInputs struct {
	Amount        float64
	TokenPriceUsd float64
	BridgeFeeBps  int64
	SwapFeeBps    int64
	IncludeSwap   bool
	// Gas costs in native units of each chain, priced in USD below.
	SourceGasNative      float64
	SourceNativePriceUsd float64
	DestGasNative        float64
	DestNativePriceUsd   float64
}

// ComputeFeeBreakdown prices a transfer. Every total is the sum of the parts
// returned alongside it.
func ComputeFeeBreakdown(in FeeInputs) types.FeeBreakdown {
	value := in.Amount * in.TokenPriceUsd

	fees := types.FeeBreakdown{
		BridgeFee:      value * float64(in.BridgeFeeBps) / 10000,
		SourceGas:      in.SourceGasNative * in.SourceNativePriceUsd,
		DestinationGas: in.DestGasNative * in.DestNativePriceUsd,
	}
	if in.IncludeSwap {
		fees.SwapFee = value * float64(in.SwapFeeBps) / 10000
	}
	fees.Total = fees.BridgeFee + fees.SourceGas + fees.DestinationGas + fees.SwapFee
	if value > 0 {
		fees.PercentOfTransfer = fees.Total / value * 100
	}
	return fees
}

// AmountReceived is what arrives on the target chain once the token-denominated
// fees are taken out. Gas is paid in native currency and is not deducted.
func AmountReceived(in FeeInputs, fees types.FeeBreakdown) float64 {
	if in.TokenPriceUsd <= 0 {
		return 0
	}
	received := in.Amount - (fees.BridgeFee+fees.SwapFee)/in.TokenPriceUsd
	if received < 0 {
		return 0
	}
	return received
}

type EstimateFeeLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewEstimateFeeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *EstimateFeeLogic {
	return &EstimateFeeLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *EstimateFeeLogic) EstimateFee(req *types.EstimateFeeReq) (*types.EstimateFeeResp, error) {
	if req.Amount <= 0 || req.Amount > maxAmount {
		return nil, errorx.BadRequest("amount must be greater than 0 and at most 1e15")
	}
	src, ok := l.svcCtx.Config.Chain(req.SourceChain)
	if !ok {
		return nil, errorx.BadRequest("unsupported source chain: " + req.SourceChain)
	}
	dst, ok := l.svcCtx.Config.Chain(req.TargetChain)
	if !ok {
		return nil, errorx.BadRequest("unsupported target chain: " + req.TargetChain)
	}
	if req.SourceChain == req.TargetChain {
		return nil, errorx.BadRequest("source and target chain must differ")
	}

	prices, err := l.svcCtx.CoinGecko.SimplePrices(l.ctx, []string{req.Token, src.NativeCoinId, dst.NativeCoinId})
	if err != nil {
		l.Errorf("fetch prices: %v", err)
		return nil, errorx.BadGateway("failed to fetch token prices")
	}
	tokenPrice := prices[req.Token]
	if tokenPrice <= 0 {
		return nil, errorx.BadRequest("no price available for token: " + req.Token)
	}
	srcNative, dstNative := prices[src.NativeCoinId], prices[dst.NativeCoinId]
	if srcNative <= 0 || dstNative <= 0 {
		return nil, errorx.BadGateway("no native currency price available")
	}

	gasPrice, gasSource := l.sourceGasPrice(req.SourceChain, src)
	bridgeConf := l.svcCtx.Config.Bridge

	in := FeeInputs{
		Amount:               req.Amount,
		TokenPriceUsd:        tokenPrice,
		BridgeFeeBps:         bridgeConf.BridgeFeeBps,
		SwapFeeBps:           bridgeConf.SwapFeeBps,
		IncludeSwap:          req.IncludeSwap,
		SourceGasNative:      chain.WeiToEther(chain.GasCost(bridgeConf.TransferGasLimit, gasPrice)),
		SourceNativePriceUsd: srcNative,
		DestGasNative:        chain.WeiToEther(chain.GasCost(bridgeConf.RedeemGasLimit, chain.GweiToWei(dst.FallbackGasGwei))),
		DestNativePriceUsd:   dstNative,
	}
	fees := ComputeFeeBreakdown(in)
	if !calculator.Finite(fees.Total, fees.PercentOfTransfer, req.Amount*tokenPrice) {
		return nil, errorx.BadRequest("result out of range")
	}

	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(gasPrice), big.NewFloat(1e9)).Float64()
	return &types.EstimateFeeResp{
		SourceChain:        req.SourceChain,
		TargetChain:        req.TargetChain,
		Token:              req.Token,
		Amount:             req.Amount,
		TokenPriceUsd:      tokenPrice,
		TransferValueUsd:   req.Amount * tokenPrice,
		Fees:               fees,
		AmountReceived:     AmountReceived(in, fees),
		SourceGasPriceGwei: gwei,
		GasPriceSource:     gasSource,
		EstimatedMinutes:   src.FinalityMinutes,
	}, nil
}

// sourceGasPrice asks the chain RPC for eth_gasPrice and falls back to the
// configured price when the chain has no RPC or the call fails.
func (l *EstimateFeeLogic) sourceGasPrice(key string, conf config.ChainConf) (*big.Int, string) {
	fallback := chain.GweiToWei(conf.FallbackGasGwei)

	client, err := l.svcCtx.Chains.Client(l.ctx, key)
	if err != nil {
		l.Infof("gas price for %s from config: %v", key, err)
		return fallback, GasPriceFromFallback
	}

	ctx, cancel := context.WithTimeout(l.ctx, gasPriceTimeout)
	defer cancel()
	price, err := client.SuggestGasPrice(ctx)
	if err != nil || price == nil || price.Sign() <= 0 {
		l.Errorf("eth_gasPrice on %s failed, using fallback: %v", key, err)
		return fallback, GasPriceFromFallback
	}
	return price, GasPriceFromRpc
}
