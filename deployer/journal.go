package deployer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

// Journal record types
const (
	RecordDeploymentInitialize = "DEPLOYMENT_INITIALIZE"
	RecordTransactionSend      = "TRANSACTION_SEND"
	RecordExecutionComplete    = "DEPLOYMENT_EXECUTION_STATE_COMPLETE"
	RecordExecutionFailed      = "DEPLOYMENT_EXECUTION_STATE_FAILED"
)

var ErrJournalLocked = errors.New("deployment is locked by another process")

type JournalRecord struct {
	Type         string   `json:"type"`
	FutureID     string   `json:"futureId"`
	ContractName string   `json:"contractName,omitempty"`
	Args         []string `json:"constructorArgs,omitempty"`
	From         string   `json:"from,omitempty"`
	TxHash       string   `json:"txHash,omitempty"`
	Address      string   `json:"address,omitempty"`
	Error        string   `json:"error,omitempty"`
	Timestamp    int64    `json:"timestamp"`
}

// Journal keeps the deployment state of one chain in a folder:
//   journal.jsonl            one record per line, append only
//   deployed_addresses.json  future id -> contract address
type Journal struct {
	Dir      string
	fileLock *flock.Flock
}

// ChainDir returns the folder of chainID under deploymentsDir
func ChainDir(deploymentsDir string, chainID *big.Int) string {
	return filepath.Join(deploymentsDir, "chain-"+chainID.String())
}

func OpenJournal(deploymentsDir string, chainID *big.Int) (*Journal, error) {
	dir := ChainDir(deploymentsDir, chainID)
	if err := os.MkdirAll(dir, os.ModeDir|os.ModePerm); err != nil {
		return nil, err
	}
	return &Journal{
		Dir:      dir,
		fileLock: flock.New(filepath.Join(dir, LockFileName)),
	}, nil
}

// Lock waits until the journal lock is acquired, or ctx is done.
// Deployments to the same chain folder may be started from different processes
func (j *Journal) Lock(ctx context.Context) error {
	var lockErr error
	_, locked := WaitForCompletionCtx(ctx, 200*time.Millisecond, func() (interface{}, bool) {
		locked, err := j.fileLock.TryLock()
		if err != nil {
			lockErr = err
			return nil, true
		}
		return nil, locked
	})
	if lockErr != nil {
		return errors.Wrap(lockErr, "locking journal")
	}
	if !locked {
		return errors.Wrap(ErrJournalLocked, j.Dir)
	}
	return nil
}

func (j *Journal) Unlock() error {
	return j.fileLock.Unlock()
}

func (j *Journal) journalPath() string {
	return filepath.Join(j.Dir, JournalFileName)
}

func (j *Journal) addressesPath() string {
	return filepath.Join(j.Dir, DeployedAddressesFile)
}

// Append writes r as a new line. Timestamp is set if missing
func (j *Journal) Append(r *JournalRecord) error {
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixNano() / int64(time.Millisecond)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(j.journalPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening journal")
	}
	_, err = f.Write(append(data, '\n'))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	LogTrace.Printf("Journal %s %s\n", r.Type, r.FutureID)
	return err
}

// Records returns all records in the order they were written
func (j *Journal) Records() ([]JournalRecord, error) {
	f, err := os.Open(j.journalPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []JournalRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var r JournalRecord
		if err := json.Unmarshal([]byte(text), &r); err != nil {
			return nil, errors.Wrapf(err, "%s line %d", j.journalPath(), line)
		}
		records = append(records, r)
	}
	return records, scanner.Err()
}

// PendingTx returns the hash of a transaction sent for futureID that has not completed.
// The second return is false if there is none
func (j *Journal) PendingTx(futureID string) (ecommon.Hash, bool, error) {
	records, err := j.Records()
	if err != nil {
		return ecommon.Hash{}, false, err
	}
	var last *JournalRecord
	for i := range records {
		if records[i].FutureID == futureID {
			last = &records[i]
		}
	}
	if last == nil || last.Type != RecordTransactionSend {
		return ecommon.Hash{}, false, nil
	}
	return ecommon.HexToHash(last.TxHash), true, nil
}

// InitializedArgs returns the constructor arguments of the last initialization of futureID.
// The second return is false if futureID was never initialized
func (j *Journal) InitializedArgs(futureID string) ([]string, bool, error) {
	records, err := j.Records()
	if err != nil {
		return nil, false, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].FutureID == futureID && records[i].Type == RecordDeploymentInitialize {
			return records[i].Args, true, nil
		}
	}
	return nil, false, nil
}

// DeployedAddresses returns future id -> address. Empty if nothing was deployed yet
func (j *Journal) DeployedAddresses() (map[string]string, error) {
	addresses := make(map[string]string)
	err := GetConfiguration(&addresses, j.addressesPath())
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	return addresses, nil
}

// SetDeployedAddress records the address of futureID
func (j *Journal) SetDeployedAddress(futureID string, address ecommon.Address) error {
	addresses, err := j.DeployedAddresses()
	if err != nil {
		return err
	}
	addresses[futureID] = address.Hex()
	tmp := j.addressesPath() + ".tmp"
	if err = SaveConfiguration(addresses, tmp); err != nil {
		return err
	}
	return os.Rename(tmp, j.addressesPath())
}

// ChainDeployment is what has been deployed on one chain
type ChainDeployment struct {
	ChainID   string
	Addresses map[string]string
}

func (c *ChainDeployment) String() string {
	ids := make([]string, 0, len(c.Addresses))
	for id := range c.Addresses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s := fmt.Sprintf("chain %s:", c.ChainID)
	if len(ids) == 0 {
		return s + " nothing deployed"
	}
	for _, id := range ids {
		s += fmt.Sprintf("\n    %s => %s", id, c.Addresses[id])
	}
	return s
}

// ListDeployments reads every chain-<id> folder under deploymentsDir, sorted by chain id
func ListDeployments(deploymentsDir string) ([]ChainDeployment, error) {
	infos, err := ioutil.ReadDir(deploymentsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var deployments []ChainDeployment
	for _, info := range infos {
		if !info.IsDir() || !strings.HasPrefix(info.Name(), "chain-") {
			continue
		}
		chainID, ok := new(big.Int).SetString(strings.TrimPrefix(info.Name(), "chain-"), 10)
		if !ok {
			continue
		}
		j := &Journal{Dir: filepath.Join(deploymentsDir, info.Name())}
		addresses, err := j.DeployedAddresses()
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, ChainDeployment{chainID.String(), addresses})
	}
	sort.Slice(deployments, func(a, b int) bool {
		x, _ := new(big.Int).SetString(deployments[a].ChainID, 10)
		y, _ := new(big.Int).SetString(deployments[b].ChainID, 10)
		return x.Cmp(y) < 0
	})
	return deployments, nil
}
