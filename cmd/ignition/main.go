// The LockModule deployment tool
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/archoncloud/chainsphere-ignition/account"
	. "github.com/archoncloud/chainsphere-ignition/common"
	"github.com/archoncloud/chainsphere-ignition/deployer"
	"github.com/archoncloud/chainsphere-ignition/ignition"
)

var isDeploy, isPlan, isStatus bool

type DeployCommand struct{}

func (x *DeployCommand) Execute(args []string) error {
	isDeploy = true
	return nil
}

type PlanCommand struct{}

func (x *PlanCommand) Execute(args []string) error {
	isPlan = true
	return nil
}

type StatusCommand struct{}

func (x *StatusCommand) Execute(args []string) error {
	isStatus = true
	return nil
}

type variantsCommand struct{}

func (x *variantsCommand) Execute(args []string) error {
	for _, name := range ignition.VariantNames() {
		v, _ := ignition.VariantByName(name)
		fmt.Printf("%s: %s\n", name, v.String())
	}
	os.Exit(0)
	return nil
}

type genEthWalletCommand struct{}

func (x *genEthWalletCommand) Execute(args []string) error {
	// Generate the wallet and return
	account.GenerateNewWalletFile(false)
	os.Exit(0)
	return nil
}

type versionCommand struct{}

func (x *versionCommand) Execute(args []string) error {
	fmt.Printf("V%s\n", Version)
	os.Exit(0)
	return nil
}

func main() {
	var options struct {
		Variant        *string  `short:"v" long:"variant" description:"LockModule configuration to deploy (see the variants command)"`
		Parameters     *string  `short:"p" long:"parameters" description:"JSON file overriding module parameters.\nRelative to the working directory"`
		Wallet         string   `long:"wallet" description:"Path to Ethereum wallet file of the deployer"`
		PasswordFile   *string  `long:"passwordFile" description:"Path to the password file for wallet.\nCan be relative if in executable folder\nIf set, will run in batch mode"`
		Rpc            []string `long:"rpc" description:"Ethereum RPC url. Can be repeated, the first responding is used"`
		ArtifactsDir   *string  `long:"artifacts" description:"Folder of the compiled contract artifacts.\nRelative to the working directory"`
		DeploymentsDir *string  `long:"deployments" description:"Folder where deployment state is kept.\nRelative to the working directory"`
		Timeout        *int     `long:"timeout" description:"Seconds to wait for each deployment transaction"`
		LogLevel       *string  `long:"loglevel" choice:"trace" choice:"debug" choice:"info" choice:"warning" choice:"error" description:"Logging level"`
	}

	parser := flags.NewParser(&options, flags.Default)
	_, _ = parser.AddCommand("deploy",
		"Deploy the module to the chain of the rpc url",
		"",
		&DeployCommand{})
	_, _ = parser.AddCommand("plan",
		"Show what the module declares, without connecting",
		"",
		&PlanCommand{})
	_, _ = parser.AddCommand("status",
		"Show deployed addresses, per chain",
		"",
		&StatusCommand{})
	_, _ = parser.AddCommand("variants",
		"List the known module configurations and exit",
		"",
		&variantsCommand{})
	_, _ = parser.AddCommand("generateEthWalletFile",
		"Generates a new Ethereum .json wallet file, with a new address",
		"",
		&genEthWalletCommand{})
	_, _ = parser.AddCommand("version",
		"Print version and exit",
		"",
		&versionCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			Abort(err)
		}
	}

	if !isDeploy && !isPlan && !isStatus {
		InvalidArgs("You need to specify a command")
	}

	// A missing .env is fine
	_ = godotenv.Load()
	conf := newConfiguration()
	confChanged := false
	fromFlags := map[string]bool{
		envWallet:  options.Wallet != "",
		envVariant: options.Variant != nil,
		envRpcUrls: len(options.Rpc) > 0,
	}
	if options.Wallet != "" && options.Wallet != conf.WalletPath {
		conf.WalletPath = options.Wallet
		confChanged = true
	}
	if options.Variant != nil && *options.Variant != conf.Variant {
		conf.Variant = *options.Variant
		confChanged = true
	}
	if options.Parameters != nil && *options.Parameters != conf.ParametersPath {
		conf.ParametersPath = *options.Parameters
		confChanged = true
	}
	if conf.setRpcUrls(options.Rpc) {
		confChanged = true
	}
	if options.ArtifactsDir != nil && *options.ArtifactsDir != conf.ArtifactsDir {
		conf.ArtifactsDir = *options.ArtifactsDir
		confChanged = true
	}
	if options.DeploymentsDir != nil && *options.DeploymentsDir != conf.DeploymentsDir {
		conf.DeploymentsDir = *options.DeploymentsDir
		confChanged = true
	}
	if options.Timeout != nil && *options.Timeout != conf.TimeoutSeconds {
		conf.TimeoutSeconds = *options.Timeout
		confChanged = true
	}
	if options.LogLevel != nil && *options.LogLevel != conf.LogLevel {
		conf.LogLevel = *options.LogLevel
		confChanged = true
	}

	InitLogging(DefaultToExecutable(filepath.Join("logs", "ignition.log")))
	defer CloseLogging()
	SetLoggingLevelFromName(conf.LogLevel)

	if confChanged {
		Abort(SaveAppConfiguration(conf))
	}
	conf.applyEnvironment(fromFlags)
	fmt.Printf("Configuration is:\n    %s\n", conf.String())

	if isStatus {
		deployments, err := deployer.ListDeployments(conf.deploymentsDir())
		Abort(err)
		if len(deployments) == 0 {
			fmt.Println("Nothing deployed yet")
		}
		for _, d := range deployments {
			fmt.Println(d.String())
		}
		return
	}

	m := conf.loadModule()
	if isPlan {
		plan, err := deployer.Plan(m, nil)
		Abort(err)
		printPlan(plan)
		return
	}

	batch := options.PasswordFile != nil
	acc := conf.getAccount(options.PasswordFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		LogWarning.Println("Interrupted. Run deploy again to resume")
		cancel()
	}()

	client, chainID, err := deployer.DialFirstResponding(ctx, conf.EthRpcUrls)
	Abort(err)
	defer client.Close()

	journal, err := deployer.OpenJournal(conf.deploymentsDir(), chainID)
	Abort(err)
	plan, err := deployer.Plan(m, journal)
	Abort(err)
	printPlan(plan)

	balance, err := client.BalanceAt(ctx, acc.Address(), nil)
	Abort(err)
	fmt.Printf("Deployer %s has %s on chain %s\n", acc.AddressString(), WeiString(balance), chainID)
	if !batch && !Yes(fmt.Sprintf("Deploy %s to chain %s", m.ID, chainID)) {
		// Rejected
		os.Exit(2)
	}

	e := deployer.Executor{
		Backend:   client,
		ChainID:   chainID,
		Account:   acc,
		Artifacts: deployer.NewArtifactStore(conf.artifactsDir()),
		Journal:   journal,
		Timeout:   time.Duration(conf.TimeoutSeconds) * time.Second,
	}
	res, err := e.Run(ctx, m)
	Abort(err)
	fmt.Printf("Deployment of %s completed\n", res.ModuleID)
	for name, addr := range res.Exports {
		fmt.Printf("    %s => %s\n", name, addr.Hex())
	}
}

func printPlan(plan []deployer.PlannedDeployment) {
	fmt.Println("Module futures:")
	for _, p := range plan {
		fmt.Printf("    %s\n", p.String())
	}
}

func (conf *Configuration) loadModule() *deployer.Module {
	if conf.Variant == "" {
		InvalidArgs(fmt.Sprintf("You need to specify a variant, one of %v", ignition.VariantNames()))
	}
	mc, err := ignition.VariantByName(conf.Variant)
	Abort(err)
	if conf.ParametersPath != "" {
		params, err := ignition.LoadParameters(DefaultToWorkingDir(conf.ParametersPath))
		Abort(err)
		mc, err = params.Apply(mc)
		Abort(err)
	}
	LogInfo.Printf("Module %s\n", mc.String())
	m, err := deployer.LoadModule(mc)
	Abort(err)
	return m
}

func (conf *Configuration) getAccount(passwordFile *string) *account.EthAccount {
	if conf.WalletPath == "" {
		InvalidArgs("You need to specify the wallet path")
	}
	if len(conf.EthRpcUrls) == 0 {
		AbortWithString("eth_rpc_urls needs to be filled in")
	}
	var password string
	if passwordFile != nil {
		p, err := ReadPasswordFile(*passwordFile)
		Abort(err)
		password = p
	} else {
		password = GetPassword("Wallet", false)
	}
	acc, err := account.NewEthAccount(conf.WalletPath, password)
	Abort(err)
	return acc
}
