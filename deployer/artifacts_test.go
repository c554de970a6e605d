package deployer

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func TestArtifactStoreLoad(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	writeArtifact(t, dir, "ChainSphereTokenICO", twoTokenABI, answerBytecode)

	s := NewArtifactStore(dir)
	a, err := s.Load("ChainSphereTokenICO")
	assert.NilError(t, err)
	assert.Equal(t, "ChainSphereTokenICO", a.ContractName)
	assert.Equal(t, "contracts/ChainSphereTokenICO.sol", a.SourceName)
	assert.Equal(t, 2, len(a.ABI.Constructor.Inputs))
	assert.Equal(t, 22, len(a.BytecodeBytes()))

	_, err = s.Load("Missing")
	assert.Equal(t, ErrArtifactNotFound, errors.Cause(err))
}

func TestParseArtifactRejects(t *testing.T) {
	toTest := []struct {
		json string
		err  string
	}{
		{`{`, "parsing artifact"},
		{`{"abi":[],"bytecode":"0x00"}`, "no contractName"},
		{`{"contractName":"I","abi":[],"bytecode":"0x"}`, "no bytecode"},
		{`{"contractName":"L","abi":[],"bytecode":"0x00","linkReferences":{"contracts/Lib.sol":{}}}`, "linked libraries"},
		{`{"contractName":"B","abi":[{"type":"constructor","inputs":[{"type":"foo"}]}],"bytecode":"0x00"}`, "parsing B abi"},
	}
	for _, cur := range toTest {
		_, err := ParseArtifact([]byte(cur.json))
		assert.ErrorContains(t, err, cur.err)
	}
}
