package deployer

import (
	"fmt"

	. "github.com/archoncloud/chainsphere-ignition/common"
	"github.com/archoncloud/chainsphere-ignition/ignition"
	"github.com/archoncloud/chainsphere-ignition/interfaces"
)

// contractFuture implements interfaces.ContractFuture
type contractFuture struct {
	id       string
	contract string
	args     []string
}

func (f *contractFuture) ID() string           { return f.id }
func (f *contractFuture) ContractName() string { return f.contract }
func (f *contractFuture) Args() []string       { return CloneStringSlice(f.args) }

func FutureID(moduleID, contractName string) string {
	return moduleID + "#" + contractName
}

// ModuleBuilder records the contracts declared by a module definition
type ModuleBuilder struct {
	moduleID string
	futures  []interfaces.ContractFuture
	ids      map[string]bool
}

func NewModuleBuilder(moduleID string) *ModuleBuilder {
	return &ModuleBuilder{
		moduleID: moduleID,
		ids:      make(map[string]bool),
	}
}

// DeclareContract implements interfaces.IModuleBuilder
func (b *ModuleBuilder) DeclareContract(typeName string, args []string) (interfaces.ContractFuture, error) {
	if typeName == "" {
		return nil, fmt.Errorf("%s: empty contract name", b.moduleID)
	}
	id := FutureID(b.moduleID, typeName)
	if b.ids[id] {
		return nil, fmt.Errorf("duplicate future id %q", id)
	}
	f := &contractFuture{
		id:       id,
		contract: typeName,
		args:     CloneStringSlice(args),
	}
	b.ids[id] = true
	b.futures = append(b.futures, f)
	LogDebug.Printf("Declared %s args=%v\n", id, f.args)
	return f, nil
}

// Futures returns the declared futures in declaration order
func (b *ModuleBuilder) Futures() []interfaces.ContractFuture {
	return append([]interfaces.ContractFuture(nil), b.futures...)
}

// Module is a loaded module definition, ready to be executed
type Module struct {
	ID      string
	Futures []interfaces.ContractFuture
	Results ignition.Exports
}

// LoadModule runs the module definition against a fresh builder
func LoadModule(conf *ignition.ModuleConfig) (*Module, error) {
	b := NewModuleBuilder(conf.Name)
	exports, err := ignition.Build(b, conf)
	if err != nil {
		return nil, err
	}
	return &Module{
		ID:      conf.Name,
		Futures: b.Futures(),
		Results: exports,
	}, nil
}

// ExportName returns the export name of the future, or empty string if not exported
func (m *Module) ExportName(futureID string) string {
	for name, f := range m.Results {
		if f.ID() == futureID {
			return name
		}
	}
	return ""
}
