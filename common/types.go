// common includes definitions and utilities shared by the chainsphere-ignition packages
package common

const (
	Kilo        = 1000
	Mega        = Kilo * 1000
	Giga        = Mega * 1000
	Quintillion = Giga * Giga // 10^18
)

const (
	EthToWei  = Quintillion
	GWeiToWei = Giga
)

// Files and folders used by a deployment
const (
	DefaultArtifactsDir   = "artifacts"
	DefaultDeploymentsDir = "deployments"
	JournalFileName       = "journal.jsonl"
	DeployedAddressesFile = "deployed_addresses.json"
	LockFileName          = ".lock"
	ArtifactFileExt       = ".json"
)

const DefaultTimeoutSeconds = 180
