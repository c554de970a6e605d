package interfaces

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// IAccount is the deployer side of a wallet
type IAccount interface {
	BlockchainName() string
	Address() common.Address
	AddressString() string
	EcdsaPrivateKey() *ecdsa.PrivateKey

	// Transactor returns options for sending transactions signed by this account
	// with replay protection for chainID
	Transactor(chainID *big.Int) *bind.TransactOpts
}
