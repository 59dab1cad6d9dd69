package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"tempo/internal/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Reader is the read-only slice of ethclient.Client the service uses.
type Reader interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*evmTypes.Receipt, error)
}

type Dialer func(ctx context.Context, rpcUrl string) (Reader, error)

func dialEthclient(ctx context.Context, rpcUrl string) (Reader, error) {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Registry hands out one RPC client per configured chain, dialed on first use.
type Registry struct {
	chains map[string]config.ChainConf
	dial   Dialer

	mu      sync.Mutex
	clients map[string]Reader
}

func NewRegistry(chains map[string]config.ChainConf) *Registry {
	return NewRegistryWithDialer(chains, dialEthclient)
}

func NewRegistryWithDialer(chains map[string]config.ChainConf, dial Dialer) *Registry {
	return &Registry{
		chains:  chains,
		dial:    dial,
		clients: make(map[string]Reader),
	}
}

// Client returns the RPC client for a chain key.
func (r *Registry) Client(ctx context.Context, key string) (Reader, error) {
	conf, ok := r.chains[key]
	if !ok {
		return nil, fmt.Errorf("unsupported chain: %s", key)
	}
	if conf.RpcUrl == "" {
		return nil, fmt.Errorf("no rpc configured for chain: %s", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[key]; ok {
		return c, nil
	}
	c, err := r.dial(ctx, conf.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("connect %s rpc: %w", key, err)
	}
	r.clients[key] = c
	return c, nil
}

// Close closes every dialed client that supports it.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, c := range r.clients {
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(r.clients, key)
	}
}
