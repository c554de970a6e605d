package common

import (
	"math/big"

	"github.com/dustin/go-humanize"
)

// WeiString returns a human readable amount, in Eth, GWei or Wei
func WeiString(wei *big.Int) string {
	if wei == nil {
		return "0 Wei"
	}
	f, _ := new(big.Float).SetInt(wei).Float64()
	if f >= EthToWei {
		return humanize.CommafWithDigits(f/EthToWei, 5) + " Eth"
	}
	if f >= Mega {
		return humanize.CommafWithDigits(f/GWeiToWei, 4) + " GWei"
	}
	return humanize.CommafWithDigits(f, 0) + " Wei"
}

// GasCost returns gasUsed * gasPrice
func GasCost(gasUsed uint64, gasPrice *big.Int) *big.Int {
	if gasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), gasPrice)
}
