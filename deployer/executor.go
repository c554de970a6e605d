package deployer

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
	"github.com/archoncloud/chainsphere-ignition/interfaces"
)

var (
	ErrDeploymentReverted = errors.New("deployment transaction reverted")
	ErrNoCode             = errors.New("no code at deployed address")
	ErrWaitTimedOut       = errors.New("timed out waiting for deployment. Run again to resume")
	ErrTxDropped          = errors.New("deployment transaction unknown to the node")
	ErrFutureChanged      = errors.New("constructor arguments differ from the journaled deployment")
)

// Backend is what the executor needs from a chain connection
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash ecommon.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash ecommon.Hash) (*types.Transaction, bool, error)
}

// Executor resolves the futures of a module into deployed contracts
type Executor struct {
	Backend   Backend
	ChainID   *big.Int
	Account   interfaces.IAccount
	Artifacts *ArtifactStore
	Journal   *Journal
	// Timeout bounds the wait for each deployment
	Timeout      time.Duration
	PollInterval time.Duration
}

// Result maps what was deployed
type Result struct {
	ModuleID string
	// future id -> address
	Addresses map[string]ecommon.Address
	// export name -> address
	Exports map[string]ecommon.Address
}

func (e *Executor) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return DefaultTimeoutSeconds * time.Second
}

func (e *Executor) pollInterval() time.Duration {
	if e.PollInterval > 0 {
		return e.PollInterval
	}
	return time.Second
}

// Run deploys every future of m that is not already deployed on the chain.
// A transaction sent by a previous, interrupted run is waited for instead of being sent again
func (e *Executor) Run(ctx context.Context, m *Module) (*Result, error) {
	if err := e.Journal.Lock(ctx); err != nil {
		return nil, err
	}
	defer e.Journal.Unlock()

	deployed, err := e.Journal.DeployedAddresses()
	if err != nil {
		return nil, err
	}
	res := &Result{
		ModuleID:  m.ID,
		Addresses: make(map[string]ecommon.Address),
		Exports:   make(map[string]ecommon.Address),
	}
	for _, f := range m.Futures {
		var addr ecommon.Address
		if a, ok := deployed[f.ID()]; ok {
			if err = checkUnchanged(e.Journal, f); err != nil {
				return nil, err
			}
			addr = ecommon.HexToAddress(a)
			LogInfo.Printf("%s already deployed at %s\n", f.ID(), addr.Hex())
		} else {
			addr, err = e.resolve(ctx, f)
			if err != nil {
				return nil, errors.Wrap(err, f.ID())
			}
		}
		res.Addresses[f.ID()] = addr
		if name := m.ExportName(f.ID()); name != "" {
			res.Exports[name] = addr
		}
	}
	return res, nil
}

func (e *Executor) resolve(ctx context.Context, f interfaces.ContractFuture) (ecommon.Address, error) {
	txHash, pending, err := e.Journal.PendingTx(f.ID())
	if err != nil {
		return ecommon.Address{}, err
	}
	if pending {
		if err = checkUnchanged(e.Journal, f); err != nil {
			return ecommon.Address{}, err
		}
		_, _, err = e.Backend.TransactionByHash(ctx, txHash)
		switch {
		case err == ethereum.NotFound:
			// Dropped by the node, a new transaction is sent below
			LogWarning.Printf("Transaction %s of %s is unknown to the node, sending again\n", txHash.Hex(), f.ID())
			e.fail(f, errors.Wrap(ErrTxDropped, txHash.Hex()))
		case err != nil:
			return ecommon.Address{}, errors.Wrap(err, "looking up pending transaction")
		default:
			LogInfo.Printf("Resuming %s, waiting for transaction %s\n", f.ID(), txHash.Hex())
			return e.waitDeployed(ctx, f, txHash, nil)
		}
	}

	artifact, err := e.Artifacts.Load(f.ContractName())
	if err != nil {
		return ecommon.Address{}, err
	}
	params, err := ConvertConstructorArgs(artifact.ABI, f.Args())
	if err != nil {
		return ecommon.Address{}, err
	}
	err = e.Journal.Append(&JournalRecord{
		Type:         RecordDeploymentInitialize,
		FutureID:     f.ID(),
		ContractName: f.ContractName(),
		Args:         f.Args(),
		From:         e.Account.AddressString(),
	})
	if err != nil {
		return ecommon.Address{}, err
	}

	opts := e.Account.Transactor(e.ChainID)
	opts.Context = ctx
	addr, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.BytecodeBytes(), e.Backend, params...)
	if err != nil {
		e.fail(f, err)
		return ecommon.Address{}, errors.Wrap(err, "sending deployment")
	}
	LogInfo.Printf("Deploying %s to %s, transaction %s\n", f.ID(), addr.Hex(), tx.Hash().Hex())
	err = e.Journal.Append(&JournalRecord{
		Type:     RecordTransactionSend,
		FutureID: f.ID(),
		TxHash:   tx.Hash().Hex(),
		Address:  addr.Hex(),
	})
	if err != nil {
		return ecommon.Address{}, err
	}
	return e.waitDeployed(ctx, f, tx.Hash(), tx.GasPrice())
}

// waitDeployed waits for the receipt of txHash and checks the contract code is there.
// A timeout leaves the transaction pending in the journal
func (e *Executor) waitDeployed(ctx context.Context, f interfaces.ContractFuture, txHash ecommon.Hash, gasPrice *big.Int) (ecommon.Address, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	var receiptErr error
	r, completed := WaitForCompletionCtx(waitCtx, e.pollInterval(), func() (interface{}, bool) {
		receipt, err := e.Backend.TransactionReceipt(waitCtx, txHash)
		if err == ethereum.NotFound || (err == nil && receipt == nil) {
			return nil, false
		}
		if err != nil {
			if waitCtx.Err() != nil {
				// Deadline hit during the call
				return nil, false
			}
			receiptErr = err
			return nil, true
		}
		return receipt, true
	})
	if receiptErr != nil {
		return ecommon.Address{}, errors.Wrap(receiptErr, "getting receipt")
	}
	if !completed {
		return ecommon.Address{}, errors.Wrap(ErrWaitTimedOut, txHash.Hex())
	}
	receipt := r.(*types.Receipt)
	if receipt.Status != types.ReceiptStatusSuccessful {
		e.fail(f, ErrDeploymentReverted)
		return ecommon.Address{}, errors.Wrap(ErrDeploymentReverted, txHash.Hex())
	}
	addr := receipt.ContractAddress
	code, err := e.Backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return ecommon.Address{}, err
	}
	if len(code) == 0 {
		e.fail(f, ErrNoCode)
		return ecommon.Address{}, errors.Wrap(ErrNoCode, addr.Hex())
	}
	if gasPrice != nil {
		LogInfo.Printf("%s deployed at %s, gas used %d, cost %s\n", f.ID(), addr.Hex(), receipt.GasUsed, WeiString(GasCost(receipt.GasUsed, gasPrice)))
	} else {
		LogInfo.Printf("%s deployed at %s, gas used %d\n", f.ID(), addr.Hex(), receipt.GasUsed)
	}

	err = e.Journal.Append(&JournalRecord{
		Type:     RecordExecutionComplete,
		FutureID: f.ID(),
		TxHash:   txHash.Hex(),
		Address:  addr.Hex(),
	})
	if err != nil {
		return ecommon.Address{}, err
	}
	return addr, e.Journal.SetDeployedAddress(f.ID(), addr)
}

func (e *Executor) fail(f interfaces.ContractFuture, cause error) {
	err := e.Journal.Append(&JournalRecord{
		Type:     RecordExecutionFailed,
		FutureID: f.ID(),
		Error:    cause.Error(),
	})
	if err != nil {
		LogError.Printf("Could not journal failure of %s: %v\n", f.ID(), err)
	}
}

// checkUnchanged fails with ErrFutureChanged when f was journaled with other constructor arguments
func checkUnchanged(j *Journal, f interfaces.ContractFuture) error {
	journaled, ok, err := j.InitializedArgs(f.ID())
	if err != nil || !ok {
		return err
	}
	if !sameArgs(journaled, f.Args()) {
		return errors.Wrapf(ErrFutureChanged, "%s was deployed with (%s), now (%s)",
			f.ID(), strings.Join(journaled, ", "), strings.Join(f.Args(), ", "))
	}
	return nil
}

// sameArgs compares addresses regardless of checksum case
func sameArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if ecommon.IsHexAddress(a[i]) && ecommon.IsHexAddress(b[i]) {
			if ecommon.HexToAddress(a[i]) != ecommon.HexToAddress(b[i]) {
				return false
			}
		} else if a[i] != b[i] {
			return false
		}
	}
	return true
}
