package wallet

import (
	"context"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"tempo/internal/chain"
	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"
	"tempo/internal/upstream"
	"tempo/internal/upstream/etherscan"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"
)

type TransactionsLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTransactionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TransactionsLogic {
	return &TransactionsLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Transactions returns the newest normal transactions of an address from Etherscan.
func (l *TransactionsLogic) Transactions(req *types.WalletTxReq) (*types.WalletTxResp, error) {
	if !common.IsHexAddress(req.Address) {
		return nil, errorx.BadRequest("invalid wallet address")
	}
	conf, ok := l.svcCtx.Config.Chain(req.Chain)
	if !ok {
		return nil, errorx.BadRequest("unsupported chain: " + req.Chain)
	}
	address := strings.ToLower(req.Address)

	txs, err := l.svcCtx.Etherscan.TxList(l.ctx, conf.ChainId, address, req.Page, req.Offset)
	if err != nil {
		l.Errorf("etherscan txlist %s on %s: %v", address, req.Chain, err)
		if upstream.StatusCode(err) == http.StatusTooManyRequests {
			return nil, errorx.TooManyRequests("Etherscan rate limit exceeded, please try again later")
		}
		return nil, errorx.BadGateway("failed to fetch transactions")
	}

	resp := &types.WalletTxResp{
		Address:      address,
		Chain:        req.Chain,
		Transactions: make([]types.WalletTx, 0, len(txs)),
	}
	explorer := strings.TrimRight(conf.ExplorerUrl, "/")
	for _, tx := range txs {
		item := toWalletTx(tx)
		if explorer != "" {
			item.ExplorerUrl = explorer + "/tx/" + tx.Hash
		}
		resp.Transactions = append(resp.Transactions, item)
	}
	return resp, nil
}

func toWalletTx(tx etherscan.Transaction) types.WalletTx {
	ts, _ := strconv.ParseInt(tx.TimeStamp, 10, 64)
	gasUsed, _ := new(big.Int).SetString(tx.GasUsed, 10)
	gasPrice, _ := new(big.Int).SetString(tx.GasPrice, 10)
	value, _ := new(big.Int).SetString(tx.Value, 10)

	var fee float64
	if gasUsed != nil && gasPrice != nil {
		fee = chain.WeiToEther(new(big.Int).Mul(gasUsed, gasPrice))
	}
	return types.WalletTx{
		Hash:         tx.Hash,
		BlockNumber:  tx.BlockNumber,
		Timestamp:    ts,
		From:         tx.From,
		To:           tx.To,
		Value:        chain.WeiToEther(value),
		FeeNative:    fee,
		Failed:       tx.IsError == "1",
		FunctionName: tx.FunctionName,
	}
}
