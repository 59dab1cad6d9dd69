package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// balanceOfSelector is the 4-byte selector of balanceOf(address).
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// BalanceOfData builds the calldata for ERC20 balanceOf(owner).
func BalanceOfData(owner common.Address) []byte {
	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfSelector...)
	return append(data, common.LeftPadBytes(owner.Bytes(), 32)...)
}

// FromUnits converts an integer amount with the given decimals to a float.
func FromUnits(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), scale).Float64()
	return f
}

// WeiToEther converts wei to whole native units.
func WeiToEther(wei *big.Int) float64 {
	return FromUnits(wei, 18)
}

// GweiToWei converts a gwei amount, possibly fractional, to wei.
func GweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(params.GWei)).Int(nil)
	return wei
}

// GasCost returns gasLimit * gasPrice in wei.
func GasCost(gasLimit uint64, gasPrice *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
}
