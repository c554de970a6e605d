package account

import (
	"crypto/ecdsa"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ecrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

// Scrypt parameters used for new wallet files
var (
	ScryptN = keystore.StandardScryptN
	ScryptP = keystore.StandardScryptP
)

var ErrNotAuthorized = errors.New("not authorized to sign for this account")

// Implements interfaces.IAccount for Ethereum
type EthAccount struct {
	PrivateKey *ecdsa.PrivateKey // Public key is also available through this
	address    ecommon.Address
}

// --------------------- IAccount start -----------------------------------------------
func (acc *EthAccount) BlockchainName() string {
	return "Ethereum"
}

func (acc *EthAccount) Address() ecommon.Address {
	return acc.address
}

func (acc *EthAccount) AddressString() string {
	return acc.address.Hex()
}

func (acc *EthAccount) EcdsaPrivateKey() *ecdsa.PrivateKey {
	return acc.PrivateKey
}

func (acc *EthAccount) Transactor(chainID *big.Int) *bind.TransactOpts {
	signer := types.NewEIP155Signer(chainID)
	return &bind.TransactOpts{
		From: acc.address,
		Signer: func(_ types.Signer, address ecommon.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != acc.address {
				return nil, ErrNotAuthorized
			}
			return types.SignTx(tx, signer, acc.PrivateKey)
		},
	}
}

// --------------------- IAccount end -----------------------------------------------

// NewEthAccount loads a keystore wallet file.
// walletPath may be relative (to exe folder), or absolute
func NewEthAccount(walletPath string, password string) (*EthAccount, error) {
	path := DefaultToExecutable(walletPath)
	if !FileExists(path) {
		return nil, fmt.Errorf("Cannot find file %q", path)
	}
	keyJson, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keyJson, password)
	if err != nil {
		return nil, errors.Wrapf(err, "decrypting %s", path)
	}
	return NewEthAccountFromKey(key.PrivateKey), nil
}

func NewEthAccountFromKey(priv *ecdsa.PrivateKey) *EthAccount {
	return &EthAccount{
		PrivateKey: priv,
		address:    ecrypto.PubkeyToAddress(priv.PublicKey),
	}
}

func PrivateKeyFromString(hexkey string) (*ecdsa.PrivateKey, error) {
	return ecrypto.HexToECDSA(strings.TrimPrefix(hexkey, "0x"))
}

// GenerateNewEthWallet creates a new .json wallet file at path. If pKey is empty a new key is generated
func GenerateNewEthWallet(path, password, pKey string) (address ecommon.Address, err error) {
	if FileExists(path) {
		err = fmt.Errorf("%q already exists", path)
		return
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, os.ModeDir|os.ModePerm); err != nil {
		return
	}
	// The keystore names its files, so create in a scratch folder and move
	tmpDir, err := ioutil.TempDir(dir, ".keystore")
	if err != nil {
		return
	}
	defer os.RemoveAll(tmpDir)

	ks := keystore.NewKeyStore(tmpDir, ScryptN, ScryptP)
	var priv *ecdsa.PrivateKey
	if pKey != "" {
		priv, err = PrivateKeyFromString(pKey)
		if err != nil {
			err = errors.Wrap(err, "invalid private key")
			return
		}
	} else {
		priv, err = ecrypto.GenerateKey()
		if err != nil {
			return
		}
	}
	acc, err := ks.ImportECDSA(priv, password)
	if err != nil {
		return
	}
	err = os.Rename(acc.URL.Path, path)
	address = acc.Address
	return
}

// GenerateNewWalletFile prompts for a password (and optional private key) and writes a new wallet
func GenerateNewWalletFile(showPassword bool) {
	path := DefaultToExecutable("newEthWallet.json")
	password := GetPassword("Password for new Ethereum wallet to be generated", showPassword)
	if password == "" {
		AbortWithString("Aborted")
	}
	confirm := GetPassword("Confirm password", showPassword)
	if password != confirm {
		AbortWithString("Passwords don't match")
	}
	private := ""
	if Yes("Do you want to provide an existing private key") {
		private = PromptForInput("Enter your private key")
		if private == "" {
			AbortWithString("Aborted")
		}
	}
	address, err := GenerateNewEthWallet(path, password, private)
	Abort(err)
	fmt.Printf("Ethereum wallet generated in %q\n", path)
	fmt.Printf("Please remember the password you just entered\n")
	fmt.Printf("Rename this file as you wish and then enter it in the .config file\n")
	fmt.Printf("The deployer address is: %q\n", address.Hex())
	fmt.Printf("You need to transfer Ethers into it before you can deploy\n")
}
