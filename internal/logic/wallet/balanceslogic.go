package wallet

import (
	"context"
	"math/big"
	"sort"
	"time"

	"tempo/internal/chain"
	"tempo/internal/config"
	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

const chainTimeout = 10 * time.Second

type BalancesLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewBalancesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BalancesLogic {
	return &BalancesLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Balances reads native and token balances on every requested chain in
// parallel. A chain that cannot be read is listed in FailedChains.
func (l *BalancesLogic) Balances(req *types.BalancesReq) (*types.BalancesResp, error) {
	if !common.IsHexAddress(req.Address) {
		return nil, errorx.BadRequest("invalid wallet address")
	}
	owner := common.HexToAddress(req.Address)

	keys, err := l.chainKeys(req.Chains)
	if err != nil {
		return nil, err
	}

	var coinIds []string
	for _, key := range keys {
		conf := l.svcCtx.Config.Chains[key]
		coinIds = append(coinIds, conf.NativeCoinId)
		for coinId := range conf.Tokens {
			coinIds = append(coinIds, coinId)
		}
	}

	results := make([]*types.ChainBalances, len(keys))
	fns := make([]func(), 0, len(keys)+1)
	for i, key := range keys {
		fns = append(fns, func() {
			balances, err := l.readChain(key, owner)
			if err != nil {
				l.Errorf("read balances on %s: %v", key, err)
				return
			}
			results[i] = balances
		})
	}
	var prices map[string]float64
	fns = append(fns, func() {
		p, err := l.svcCtx.CoinGecko.SimplePrices(l.ctx, coinIds)
		if err != nil {
			l.Errorf("price balances: %v", err)
			return
		}
		prices = p
	})
	mr.FinishVoid(fns...)

	resp := &types.BalancesResp{
		Address:      owner.Hex(),
		Chains:       []types.ChainBalances{},
		FailedChains: []string{},
	}
	for i, balances := range results {
		if balances == nil {
			resp.FailedChains = append(resp.FailedChains, keys[i])
			continue
		}
		price(&balances.Native, prices)
		balances.TotalUsd = balances.Native.ValueUsd
		for j := range balances.Tokens {
			price(&balances.Tokens[j], prices)
			balances.TotalUsd += balances.Tokens[j].ValueUsd
		}
		resp.TotalUsd += balances.TotalUsd
		resp.Chains = append(resp.Chains, *balances)
	}
	return resp, nil
}

func price(b *types.TokenBalance, prices map[string]float64) {
	b.PriceUsd = prices[b.CoinId]
	b.ValueUsd = b.Balance * b.PriceUsd
}

func (l *BalancesLogic) chainKeys(requested []string) ([]string, error) {
	if len(requested) == 0 {
		keys := make([]string, 0, len(l.svcCtx.Config.Chains))
		for key := range l.svcCtx.Config.Chains {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys, nil
	}

	seen := make(map[string]bool, len(requested))
	keys := make([]string, 0, len(requested))
	for _, key := range requested {
		if _, ok := l.svcCtx.Config.Chain(key); !ok {
			return nil, errorx.BadRequest("unsupported chain: " + key)
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (l *BalancesLogic) readChain(key string, owner common.Address) (*types.ChainBalances, error) {
	conf := l.svcCtx.Config.Chains[key]
	client, err := l.svcCtx.Chains.Client(l.ctx, key)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(l.ctx, chainTimeout)
	defer cancel()

	wei, err := client.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, err
	}

	balances := &types.ChainBalances{
		Chain:   key,
		ChainId: conf.ChainId,
		Native: types.TokenBalance{
			Symbol:  conf.NativeSymbol,
			CoinId:  conf.NativeCoinId,
			Balance: chain.WeiToEther(wei),
		},
		Tokens: []types.TokenBalance{},
	}

	coinIds := make([]string, 0, len(conf.Tokens))
	for coinId := range conf.Tokens {
		coinIds = append(coinIds, coinId)
	}
	sort.Strings(coinIds)
	for _, coinId := range coinIds {
		token := conf.Tokens[coinId]
		amount, err := tokenBalance(ctx, client, token, owner)
		if err != nil {
			l.Errorf("balanceOf %s on %s: %v", token.Symbol, key, err)
			continue
		}
		balances.Tokens = append(balances.Tokens, types.TokenBalance{
			Symbol:          token.Symbol,
			CoinId:          coinId,
			ContractAddress: token.Address,
			Balance:         chain.FromUnits(amount, token.Decimals),
		})
	}
	return balances, nil
}

func tokenBalance(ctx context.Context, client chain.Reader, token config.TokenConf, owner common.Address) (*big.Int, error) {
	contract := common.HexToAddress(token.Address)
	out, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: chain.BalanceOfData(owner),
	}, nil)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(out), nil
}
