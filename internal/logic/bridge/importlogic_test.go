package bridge

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"tempo/internal/chain"
	"tempo/internal/constant"
	"tempo/internal/errorx"
	"tempo/internal/testutil"
	"tempo/internal/types"

	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportContext(t *testing.T) (*testutil.Mocks, *testutil.MockChainReader, func(ctx context.Context) *ImportTxLogic) {
	t.Helper()
	scan := testutil.NewWormholeScanServer(t, testOperations)
	c := testutil.Config()
	c.WormholeScan.ApiUrl = scan.URL

	reader := testutil.NewMockChainReader()
	svcCtx, mocks := testutil.NewServiceContext(c, map[string]chain.Reader{"ethereum": reader})
	return mocks, reader, func(ctx context.Context) *ImportTxLogic {
		return NewImportTxLogic(ctx, svcCtx)
	}
}

func TestImportTx(t *testing.T) {
	mocks, reader, newLogic := newImportContext(t)
	reader.AddReceipt(common.HexToHash(hashCompleted), evmTypes.ReceiptStatusSuccessful)
	ctx := testutil.WithUser(context.Background(), "user-1")

	resp, err := newLogic(ctx).ImportTx(&types.ImportTxReq{
		TxHash:        hashCompleted,
		SourceChain:   "ethereum",
		TargetChain:   "base",
		WalletAddress: "0xAbC0000000000000000000000000000000000001",
	})
	require.NoError(t, err)

	tx := resp.Transaction
	assert.Equal(t, hashCompleted, tx.TxHash)
	assert.Equal(t, constant.TxStatusCompleted, tx.Status)
	assert.Equal(t, "USDC", tx.TokenSymbol)
	assert.Equal(t, "42", tx.Amount)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", tx.WalletAddress)
	assert.Equal(t, "https://etherscan.io/tx/"+hashCompleted, tx.ExplorerUrl)
	assert.NotEmpty(t, tx.CompletedAt)
	assert.Equal(t, 1, mocks.WormholeTransactions.Len())
}

func TestImportTxTwiceIsRejected(t *testing.T) {
	_, reader, newLogic := newImportContext(t)
	reader.AddReceipt(common.HexToHash(hashPending), evmTypes.ReceiptStatusSuccessful)
	ctx := testutil.WithUser(context.Background(), "user-1")
	req := &types.ImportTxReq{TxHash: hashPending, SourceChain: "ethereum"}

	first, err := newLogic(ctx).ImportTx(req)
	require.NoError(t, err)
	assert.Equal(t, constant.TxStatusPending, first.Transaction.Status)

	_, err = newLogic(ctx).ImportTx(req)
	var ce *errorx.CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusConflict, ce.Code)
	assert.Contains(t, ce.Msg, "already imported")

	alpha := "0x" + strings.Repeat("ab", 32)
	reader.AddReceipt(common.HexToHash(alpha), evmTypes.ReceiptStatusSuccessful)
	_, err = newLogic(ctx).ImportTx(&types.ImportTxReq{TxHash: alpha, SourceChain: "ethereum"})
	require.NoError(t, err)

	// different casing is the same transaction
	_, err = newLogic(testutil.WithUser(context.Background(), "user-2")).ImportTx(&types.ImportTxReq{
		TxHash:      "0x" + strings.ToUpper(alpha[2:]),
		SourceChain: "ethereum",
	})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusConflict, ce.Code)
}

func TestImportTxValidation(t *testing.T) {
	_, reader, newLogic := newImportContext(t)
	reader.AddReceipt(common.HexToHash(hashVaa), evmTypes.ReceiptStatusFailed)
	ctx := testutil.WithUser(context.Background(), "user-1")

	tests := []struct {
		name     string
		ctx      context.Context
		req      types.ImportTxReq
		wantCode int
		wantMsg  string
	}{
		{"anonymous", context.Background(), types.ImportTxReq{TxHash: hashPending, SourceChain: "ethereum"}, http.StatusUnauthorized, "authentication required"},
		{"short hash", ctx, types.ImportTxReq{TxHash: "0xabc", SourceChain: "ethereum"}, http.StatusBadRequest, "invalid transaction hash format"},
		{"no prefix", ctx, types.ImportTxReq{TxHash: hashPending[2:] + "00", SourceChain: "ethereum"}, http.StatusBadRequest, "invalid transaction hash format"},
		{"non hex", ctx, types.ImportTxReq{TxHash: "0x" + "zz" + hashPending[4:], SourceChain: "ethereum"}, http.StatusBadRequest, "invalid transaction hash format"},
		{"unknown chain", ctx, types.ImportTxReq{TxHash: hashPending, SourceChain: "fantom"}, http.StatusBadRequest, "unsupported source chain: fantom"},
		{"not on chain", ctx, types.ImportTxReq{TxHash: hashUnknown, SourceChain: "ethereum"}, http.StatusBadRequest, "transaction not found on ethereum"},
		{"reverted", ctx, types.ImportTxReq{TxHash: hashVaa, SourceChain: "ethereum"}, http.StatusBadRequest, "transaction reverted on ethereum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLogic(tt.ctx).ImportTx(&tt.req)
			var ce *errorx.CodeError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantCode, ce.Code)
			assert.Equal(t, tt.wantMsg, ce.Msg)
		})
	}
}

func TestImportTxSkipsReceiptCheckWithoutRpc(t *testing.T) {
	scan := testutil.NewWormholeScanServer(t, testOperations)
	c := testutil.Config()
	c.WormholeScan.ApiUrl = scan.URL
	svcCtx, _ := testutil.NewServiceContext(c, nil)

	ctx := testutil.WithUser(context.Background(), "user-1")
	resp, err := NewImportTxLogic(ctx, svcCtx).ImportTx(&types.ImportTxReq{TxHash: hashVaa, SourceChain: "base"})
	require.NoError(t, err)
	assert.Equal(t, constant.TxStatusVaaReady, resp.Transaction.Status)
	assert.True(t, resp.Transaction.HasVaa)
}

func TestListTx(t *testing.T) {
	_, reader, newLogic := newImportContext(t)
	reader.AddReceipt(common.HexToHash(hashPending), evmTypes.ReceiptStatusSuccessful)
	reader.AddReceipt(common.HexToHash(hashCompleted), evmTypes.ReceiptStatusSuccessful)

	alice := testutil.WithUser(context.Background(), "alice")
	bob := testutil.WithUser(context.Background(), "bob")
	_, err := newLogic(alice).ImportTx(&types.ImportTxReq{TxHash: hashPending, SourceChain: "ethereum"})
	require.NoError(t, err)
	_, err = newLogic(bob).ImportTx(&types.ImportTxReq{TxHash: hashCompleted, SourceChain: "ethereum"})
	require.NoError(t, err)

	svcCtx := newLogic(alice).svcCtx
	resp, err := NewListTxLogic(alice, svcCtx).ListTx(&types.ListTxReq{Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, hashPending, resp.Transactions[0].TxHash)

	_, err = NewListTxLogic(context.Background(), svcCtx).ListTx(&types.ListTxReq{Limit: 50})
	assert.Error(t, err)
}
