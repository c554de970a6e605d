package interfaces

// ContractFuture is the handle returned when a contract instantiation is declared.
// It stays a reference until a runner resolves it to a deployed address
type ContractFuture interface {
	// ID is unique within a deployment: <moduleId>#<contractName>
	ID() string
	ContractName() string
	// Args are the constructor arguments, in declaration order
	Args() []string
}

// IModuleBuilder is the only capability a deployment module definition uses
type IModuleBuilder interface {
	DeclareContract(typeName string, args []string) (ContractFuture, error)
}
