package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

type Configuration struct {
	WalletPath     string `json:"wallet_path"`
	Variant        string `json:"variant"`
	ParametersPath string `json:"parameters_path"`
	ArtifactsDir   string `json:"artifacts_dir"`
	DeploymentsDir string `json:"deployments_dir"`
	LogLevel       string `json:"log_level"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// The following can only be edited manually
	EthRpcUrls []string `json:"eth_rpc_urls"`
}

func (c *Configuration) String() string {
	s := fmt.Sprintf("variant=%q, wallet_path=%q, artifacts_dir=%q, deployments_dir=%q, timeout_seconds=%d, log_level=%s",
		c.Variant, c.WalletPath, c.ArtifactsDir, c.DeploymentsDir, c.TimeoutSeconds, c.LogLevel)
	if c.ParametersPath != "" {
		s += fmt.Sprintf(", parameters_path=%q", c.ParametersPath)
	}
	if len(c.EthRpcUrls) > 0 {
		s += fmt.Sprintf(", eth_rpc_urls=%v", c.EthRpcUrls)
	}
	return s
}

func newConfiguration() *Configuration {
	// default
	conf := Configuration{
		ArtifactsDir:   DefaultArtifactsDir,
		DeploymentsDir: DefaultDeploymentsDir,
		LogLevel:       "info",
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
	err := GetAppConfiguration(&conf)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		Abort(err)
	}
	return &conf
}

// Environment variables (possibly from a .env file) take precedence over the config file.
// They are applied after the configuration is saved, so they are never persisted.
const (
	envRpcUrls = "IGNITION_RPC_URLS"
	envWallet  = "IGNITION_WALLET"
	envVariant = "IGNITION_VARIANT"
)

// fromFlags holds the variables whose value was given on the command line
func (c *Configuration) applyEnvironment(fromFlags map[string]bool) {
	if v := os.Getenv(envRpcUrls); v != "" && !fromFlags[envRpcUrls] {
		c.EthRpcUrls = c.EthRpcUrls[:0]
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				c.EthRpcUrls = append(c.EthRpcUrls, u)
			}
		}
	}
	if v := os.Getenv(envWallet); v != "" && !fromFlags[envWallet] {
		c.WalletPath = v
	}
	if v := os.Getenv(envVariant); v != "" && !fromFlags[envVariant] {
		c.Variant = v
	}
}

// setRpcUrls replaces the RPC urls with non empty urls, and reports whether they changed
func (c *Configuration) setRpcUrls(urls []string) bool {
	if len(urls) == 0 || SameStrings(urls, c.EthRpcUrls) {
		return false
	}
	c.EthRpcUrls = CloneStringSlice(urls)
	return true
}

// Project folders are relative to the working directory, like in a Hardhat project
func (c *Configuration) artifactsDir() string {
	return DefaultToWorkingDir(c.ArtifactsDir)
}

func (c *Configuration) deploymentsDir() string {
	return DefaultToWorkingDir(c.DeploymentsDir)
}
