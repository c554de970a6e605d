package account

import (
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"gotest.tools/assert"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func init() {
	ScryptN = keystore.LightScryptN
	ScryptP = keystore.LightScryptP
}

func TestGenerateAndLoadWallet(t *testing.T) {
	dir, err := ioutil.TempDir("", "ignition")
	assert.NilError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "wallet.json")
	address, err := GenerateNewEthWallet(path, "secret", "0x"+testKey)
	assert.NilError(t, err)

	acc, err := NewEthAccount(path, "secret")
	assert.NilError(t, err)
	assert.Equal(t, address, acc.Address())
	assert.Equal(t, "0x71562b71999873DB5b286dF957af199Ec94617F7", acc.AddressString())

	_, err = NewEthAccount(path, "wrong")
	assert.ErrorContains(t, err, "decrypting")

	_, err = GenerateNewEthWallet(path, "secret", "")
	assert.ErrorContains(t, err, "already exists")

	// Only the wallet is left in the folder
	infos, err := ioutil.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, 1, len(infos))
}

func TestGenerateNewKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "ignition")
	assert.NilError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sub", "wallet.json")
	address, err := GenerateNewEthWallet(path, "secret", "")
	assert.NilError(t, err)
	acc, err := NewEthAccount(path, "secret")
	assert.NilError(t, err)
	assert.Equal(t, address, acc.Address())
}

func TestTransactorSigns(t *testing.T) {
	priv, err := PrivateKeyFromString(testKey)
	assert.NilError(t, err)
	acc := NewEthAccountFromKey(priv)
	chainID := big.NewInt(1337)
	opts := acc.Transactor(chainID)
	assert.Equal(t, acc.Address(), opts.From)

	tx := types.NewTransaction(0, ecommon.Address{}, big.NewInt(1), 21000, big.NewInt(1), nil)
	signed, err := opts.Signer(types.NewEIP155Signer(chainID), acc.Address(), tx)
	assert.NilError(t, err)
	sender, err := types.Sender(types.NewEIP155Signer(chainID), signed)
	assert.NilError(t, err)
	assert.Equal(t, acc.Address(), sender)

	_, err = opts.Signer(types.NewEIP155Signer(chainID), ecommon.Address{1}, tx)
	assert.Equal(t, ErrNotAuthorized, err)
}
