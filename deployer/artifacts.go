package deployer

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is a compiled contract, as written by the Hardhat compile step
type Artifact struct {
	Format         string                     `json:"_format"`
	ContractName   string                     `json:"contractName"`
	SourceName     string                     `json:"sourceName"`
	RawABI         json.RawMessage            `json:"abi"`
	Bytecode       string                     `json:"bytecode"`
	LinkReferences map[string]json.RawMessage `json:"linkReferences"`

	ABI abi.ABI `json:"-"`
}

// BytecodeBytes returns the creation code
func (a *Artifact) BytecodeBytes() []byte {
	return ecommon.FromHex(a.Bytecode)
}

// ArtifactStore finds artifacts by contract name under a folder
type ArtifactStore struct {
	Dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{Dir: dir}
}

// Load finds <name>.json under the store folder and parses it
func (s *ArtifactStore) Load(name string) (*Artifact, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading artifact %s", path)
	}
	return ParseArtifact(data)
}

func (s *ArtifactStore) find(name string) (string, error) {
	wanted := name + ArtifactFileExt
	var found []string
	err := filepath.Walk(s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == wanted {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "searching %s", s.Dir)
	}
	switch len(found) {
	case 0:
		return "", errors.Wrapf(ErrArtifactNotFound, "%s in %s", name, s.Dir)
	case 1:
		return found[0], nil
	}
	return "", errors.Errorf("%d artifacts named %s: %s", len(found), name, strings.Join(found, ", "))
}

func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "parsing artifact")
	}
	if a.ContractName == "" {
		return nil, errors.New("artifact has no contractName")
	}
	if len(a.LinkReferences) > 0 {
		return nil, errors.Errorf("%s needs linked libraries, which are not supported", a.ContractName)
	}
	if len(a.BytecodeBytes()) == 0 {
		return nil, errors.Errorf("%s has no bytecode. Abstract contract or interface?", a.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(a.RawABI))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s abi", a.ContractName)
	}
	a.ABI = parsed
	return &a, nil
}
