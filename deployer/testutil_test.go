package deployer

import (
	"context"
	"crypto/ecdsa"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"gotest.tools/assert"

	"github.com/archoncloud/chainsphere-ignition/account"
)

// Creation code returning a 10 byte runtime that returns 42.
// Constructor arguments appended to it are ignored
const answerBytecode = "0x600a600c600039600a6000f3602a60005260206000f3"

// Creation code that always reverts
const revertBytecode = "0x60006000fd"

// Creation code that succeeds but leaves no runtime code
const emptyRuntimeBytecode = "0x60006000f3"

const twoTokenABI = `[{"inputs":[{"internalType":"address","name":"_erc20","type":"address"},{"internalType":"address","name":"_bep20","type":"address"}],"stateMutability":"nonpayable","type":"constructor"}]`

var simChainID = big.NewInt(1337)

func artifactJson(name, abiJson, bytecode string) string {
	return `{"_format":"hh-sol-artifact-1","contractName":"` + name + `","sourceName":"contracts/` + name +
		`.sol","abi":` + abiJson + `,"bytecode":"` + bytecode + `","deployedBytecode":"0x","linkReferences":{},"deployedLinkReferences":{}}`
}

// writeArtifact writes a Hardhat style artifact under dir and returns its path
func writeArtifact(t *testing.T, dir, name, abiJson, bytecode string) string {
	folder := filepath.Join(dir, "contracts", name+".sol")
	assert.NilError(t, os.MkdirAll(folder, os.ModePerm))
	path := filepath.Join(folder, name+".json")
	assert.NilError(t, ioutil.WriteFile(path, []byte(artifactJson(name, abiJson, bytecode)), 0644))
	// debug files next to artifacts must be ignored
	assert.NilError(t, ioutil.WriteFile(filepath.Join(folder, name+".dbg.json"), []byte(`{}`), 0644))
	return path
}

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "ignition")
	assert.NilError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

// autoCommitBackend mines a block after each transaction
type autoCommitBackend struct {
	*backends.SimulatedBackend
}

func (b *autoCommitBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := b.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.Commit()
	return nil
}

// fixedGasBackend skips gas estimation, so failing deployments are still mined
type fixedGasBackend struct {
	*autoCommitBackend
}

func (b *fixedGasBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 300000, nil
}

// stalledReceiptBackend never answers receipt requests before ctx is done
type stalledReceiptBackend struct {
	*backends.SimulatedBackend
}

func (b *stalledReceiptBackend) TransactionReceipt(ctx context.Context, txHash ecommon.Hash) (*types.Receipt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newSimulated(t *testing.T) (*backends.SimulatedBackend, *account.EthAccount) {
	key, err := crypto.GenerateKey()
	assert.NilError(t, err)
	acc := account.NewEthAccountFromKey(key)
	balance := new(big.Int).Mul(big.NewInt(100), big.NewInt(1000000000000000000))
	sim := backends.NewSimulatedBackend(core.GenesisAlloc{acc.Address(): {Balance: balance}}, 8000000)
	return sim, acc
}

func newTestExecutor(t *testing.T, backend Backend, key *ecdsa.PrivateKey, artifactsDir, deploymentsDir string) *Executor {
	j, err := OpenJournal(deploymentsDir, simChainID)
	assert.NilError(t, err)
	return &Executor{
		Backend:      backend,
		ChainID:      simChainID,
		Account:      account.NewEthAccountFromKey(key),
		Artifacts:    NewArtifactStore(artifactsDir),
		Journal:      j,
		Timeout:      2 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}
