// Package ignition declares the LockModule deployment unit.
//
// A module definition is pure: Build asks the builder for exactly one contract
// instantiation and returns the handle under the configured export name.
// Which token addresses are passed to the constructor is configuration data.
package ignition

import (
	"fmt"

	"github.com/archoncloud/chainsphere-ignition/interfaces"
)

const (
	LockModuleName  = "LockModule"
	ICOContractType = "ChainSphereTokenICO"
	LockExportName  = "lock"
)

// ModuleConfig describes one deployment unit
type ModuleConfig struct {
	Name          string `json:"name"`
	ContractType  string `json:"contract_type"`
	ExportName    string `json:"export_name"`
	TokenAddressA string `json:"tokenAddressA"`
	// optional
	TokenAddressB string `json:"tokenAddressB,omitempty"`
}

// Exports maps an export name to the declared handle
type Exports map[string]interfaces.ContractFuture

// ConstructorArgs returns the addresses in order. TokenAddressB is included only when set.
// No address validation happens here
func (c *ModuleConfig) ConstructorArgs() []string {
	args := []string{c.TokenAddressA}
	if c.TokenAddressB != "" {
		args = append(args, c.TokenAddressB)
	}
	return args
}

func (c *ModuleConfig) String() string {
	s := fmt.Sprintf("module=%q contract=%q export=%q tokenAddressA=%s", c.Name, c.ContractType, c.ExportName, c.TokenAddressA)
	if c.TokenAddressB != "" {
		s += " tokenAddressB=" + c.TokenAddressB
	}
	return s
}

// Build declares the module contract on m. Errors from m are returned as is
func Build(m interfaces.IModuleBuilder, conf *ModuleConfig) (Exports, error) {
	lock, err := m.DeclareContract(conf.ContractType, conf.ConstructorArgs())
	if err != nil {
		return nil, err
	}
	return Exports{conf.ExportName: lock}, nil
}
