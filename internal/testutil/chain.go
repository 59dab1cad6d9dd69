package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
)

// MockChainReader implements chain.Reader. Behavior is controlled by its
// exported fields; unknown receipts return ethereum.NotFound.
type MockChainReader struct {
	mu sync.RWMutex

	GasPrice    *big.Int
	GasPriceErr error
	BalanceErr  error
	ReceiptErr  error

	balances map[common.Address]*big.Int
	// tokenBalances maps contract -> owner -> balance.
	tokenBalances map[common.Address]map[common.Address]*big.Int
	receipts      map[common.Hash]*evmTypes.Receipt
}

func NewMockChainReader() *MockChainReader {
	return &MockChainReader{
		GasPrice:      big.NewInt(20_000_000_000),
		balances:      make(map[common.Address]*big.Int),
		tokenBalances: make(map[common.Address]map[common.Address]*big.Int),
		receipts:      make(map[common.Hash]*evmTypes.Receipt),
	}
}

func (m *MockChainReader) SetBalance(owner common.Address, wei *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[owner] = wei
}

func (m *MockChainReader) SetTokenBalance(contract, owner common.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenBalances[contract] == nil {
		m.tokenBalances[contract] = make(map[common.Address]*big.Int)
	}
	m.tokenBalances[contract][owner] = amount
}

func (m *MockChainReader) AddReceipt(hash common.Hash, status uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[hash] = &evmTypes.Receipt{TxHash: hash, Status: status}
}

func (m *MockChainReader) SuggestGasPrice(context.Context) (*big.Int, error) {
	if m.GasPriceErr != nil {
		return nil, m.GasPriceErr
	}
	return new(big.Int).Set(m.GasPrice), nil
}

func (m *MockChainReader) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if m.BalanceErr != nil {
		return nil, m.BalanceErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

// CallContract answers balanceOf(address) calls only.
func (m *MockChainReader) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if m.BalanceErr != nil {
		return nil, m.BalanceErr
	}
	if msg.To == nil || len(msg.Data) != 36 {
		return nil, errors.New("unsupported call")
	}
	owner := common.BytesToAddress(msg.Data[4:])

	m.mu.RLock()
	defer m.mu.RUnlock()
	amount := big.NewInt(0)
	if b, ok := m.tokenBalances[*msg.To][owner]; ok {
		amount = b
	}
	return common.LeftPadBytes(amount.Bytes(), 32), nil
}

func (m *MockChainReader) TransactionReceipt(_ context.Context, txHash common.Hash) (*evmTypes.Receipt, error) {
	if m.ReceiptErr != nil {
		return nil, m.ReceiptErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}
