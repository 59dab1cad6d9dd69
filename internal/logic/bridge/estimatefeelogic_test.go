package bridge

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tempo/internal/chain"
	"tempo/internal/errorx"
	"tempo/internal/testutil"
	"tempo/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFeeBreakdown(t *testing.T) {
	in := FeeInputs{
		Amount:               1000,
		TokenPriceUsd:        1,
		BridgeFeeBps:         10,
		SwapFeeBps:           30,
		IncludeSwap:          true,
		SourceGasNative:      0.005,
		SourceNativePriceUsd: 2000,
		DestGasNative:        0.000015,
		DestNativePriceUsd:   2000,
	}

	fees := ComputeFeeBreakdown(in)
	assert.InDelta(t, 1.0, fees.BridgeFee, 1e-9)
	assert.InDelta(t, 3.0, fees.SwapFee, 1e-9)
	assert.InDelta(t, 10.0, fees.SourceGas, 1e-9)
	assert.InDelta(t, 0.03, fees.DestinationGas, 1e-9)
	assert.InDelta(t, 14.03, fees.Total, 1e-9)
	assert.Equal(t, fees.BridgeFee+fees.SourceGas+fees.DestinationGas+fees.SwapFee, fees.Total)
	assert.Equal(t, fees.Total/1000*100, fees.PercentOfTransfer)
	assert.InDelta(t, 996.0, AmountReceived(in, fees), 1e-9)

	in.IncludeSwap = false
	fees = ComputeFeeBreakdown(in)
	assert.Zero(t, fees.SwapFee)
	assert.InDelta(t, 11.03, fees.Total, 1e-9)
	assert.InDelta(t, 999.0, AmountReceived(in, fees), 1e-9)
}

func TestAmountReceivedNeverNegative(t *testing.T) {
	in := FeeInputs{Amount: 1, TokenPriceUsd: 1, BridgeFeeBps: 20000}
	fees := ComputeFeeBreakdown(in)
	assert.Zero(t, AmountReceived(in, fees))
}

func newFeeContext(t *testing.T, reader chain.Reader) *EstimateFeeLogic {
	t.Helper()
	gecko := testutil.NewCoinGeckoServer(t, map[string]float64{"usd-coin": 1, "ethereum": 2000})
	c := testutil.Config()
	c.CoinGecko.ApiUrl = gecko.URL

	readers := map[string]chain.Reader{}
	if reader != nil {
		readers["ethereum"] = reader
	}
	svcCtx, _ := testutil.NewServiceContext(c, readers)
	return NewEstimateFeeLogic(context.Background(), svcCtx)
}

func TestEstimateFee(t *testing.T) {
	reader := testutil.NewMockChainReader()
	l := newFeeContext(t, reader)

	resp, err := l.EstimateFee(&types.EstimateFeeReq{
		SourceChain: "ethereum",
		TargetChain: "base",
		Token:       "usd-coin",
		Amount:      1000,
		IncludeSwap: true,
	})
	require.NoError(t, err)

	assert.Equal(t, GasPriceFromRpc, resp.GasPriceSource)
	assert.InDelta(t, 20.0, resp.SourceGasPriceGwei, 1e-9)
	assert.InDelta(t, 1000.0, resp.TransferValueUsd, 1e-9)
	assert.InDelta(t, 14.03, resp.Fees.Total, 1e-6)
	assert.InDelta(t, resp.Fees.Total/resp.TransferValueUsd*100, resp.Fees.PercentOfTransfer, 1e-12)
	assert.InDelta(t, 996.0, resp.AmountReceived, 1e-9)
	assert.Equal(t, 15, resp.EstimatedMinutes)
}

func TestEstimateFeeFallsBackWhenRpcFails(t *testing.T) {
	reader := testutil.NewMockChainReader()
	reader.GasPriceErr = errors.New("rpc down")
	l := newFeeContext(t, reader)

	resp, err := l.EstimateFee(&types.EstimateFeeReq{
		SourceChain: "ethereum",
		TargetChain: "base",
		Token:       "usd-coin",
		Amount:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, GasPriceFromFallback, resp.GasPriceSource)
	assert.InDelta(t, 20.0, resp.SourceGasPriceGwei, 1e-9)
	assert.Zero(t, resp.Fees.SwapFee)
}

func TestEstimateFeeFallsBackWithoutRpc(t *testing.T) {
	l := newFeeContext(t, nil)

	resp, err := l.EstimateFee(&types.EstimateFeeReq{
		SourceChain: "ethereum",
		TargetChain: "base",
		Token:       "usd-coin",
		Amount:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, GasPriceFromFallback, resp.GasPriceSource)
}

func TestEstimateFeeRejects(t *testing.T) {
	tests := []struct {
		name    string
		req     types.EstimateFeeReq
		wantMsg string
	}{
		{"zero amount", types.EstimateFeeReq{SourceChain: "ethereum", TargetChain: "base", Token: "usd-coin"}, "amount must be greater than 0 and at most 1e15"},
		{"huge amount", types.EstimateFeeReq{SourceChain: "ethereum", TargetChain: "base", Token: "usd-coin", Amount: 1e300}, "amount must be greater than 0 and at most 1e15"},
		{"unknown source", types.EstimateFeeReq{SourceChain: "solana", TargetChain: "base", Token: "usd-coin", Amount: 1}, "unsupported source chain: solana"},
		{"unknown target", types.EstimateFeeReq{SourceChain: "ethereum", TargetChain: "aptos", Token: "usd-coin", Amount: 1}, "unsupported target chain: aptos"},
		{"same chain", types.EstimateFeeReq{SourceChain: "base", TargetChain: "base", Token: "usd-coin", Amount: 1}, "source and target chain must differ"},
		{"unpriced token", types.EstimateFeeReq{SourceChain: "ethereum", TargetChain: "base", Token: "not-a-coin", Amount: 1}, "no price available for token: not-a-coin"},
	}

	l := newFeeContext(t, testutil.NewMockChainReader())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.EstimateFee(&tt.req)
			var ce *errorx.CodeError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, http.StatusBadRequest, ce.Code)
			assert.Equal(t, tt.wantMsg, ce.Msg)
		})
	}
}

func TestEstimateFeePriceOutage(t *testing.T) {
	c := testutil.Config()
	c.CoinGecko.ApiUrl = testutil.FailingServer(t, http.StatusTooManyRequests).URL
	svcCtx, _ := testutil.NewServiceContext(c, nil)

	_, err := NewEstimateFeeLogic(context.Background(), svcCtx).EstimateFee(&types.EstimateFeeReq{
		SourceChain: "ethereum",
		TargetChain: "base",
		Token:       "usd-coin",
		Amount:      1,
	})
	var ce *errorx.CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadGateway, ce.Code)
}
