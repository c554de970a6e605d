package ignition

import (
	"sort"

	"github.com/pkg/errors"
)

// The two known LockModule configurations. Neither is the default:
// the operator has to pick one.
var (
	// VariantA passes the ERC20 and BEP20 token addresses
	VariantA = ModuleConfig{
		Name:          LockModuleName,
		ContractType:  ICOContractType,
		ExportName:    LockExportName,
		TokenAddressA: "0x7169D38820dfd117C3FA1f22a697dBA58d90BA06",
		TokenAddressB: "0xA11c8D9DC9b66E209Ef60F0C8D969D3CD988782c",
	}
	// VariantB passes a single token address
	VariantB = ModuleConfig{
		Name:          LockModuleName,
		ContractType:  ICOContractType,
		ExportName:    LockExportName,
		TokenAddressA: "0x337610d27c682E347C9cD60BD4b3b107C9d34dDd",
	}
)

var variants = map[string]ModuleConfig{
	"a": VariantA,
	"b": VariantB,
}

// VariantNames returns the names accepted by VariantByName, sorted
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// VariantByName returns a copy of the named configuration
func VariantByName(name string) (*ModuleConfig, error) {
	v, ok := variants[name]
	if !ok {
		return nil, errors.Errorf("unknown variant %q, expected one of %v", name, VariantNames())
	}
	return &v, nil
}
