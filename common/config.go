package common

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/pkg/errors"
)

// getAppConfigPath returns the path of the executable with extension .config
func getAppConfigPath() string {
	nameOfExe := os.Args[0]
	ext := path.Ext(nameOfExe)
	configPath := nameOfExe[0:len(nameOfExe)-len(ext)] + ".config"
	return configPath
}

// GetConfiguration reads the JSON file at path into config.
// A missing file is reported with an error satisfying errors.Is(err, os.ErrNotExist)
func GetConfiguration(config interface{}, path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, config)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

func SaveConfiguration(conf interface{}, path string) error {
	data, err := json.MarshalIndent(conf, "", "    ")
	if err == nil {
		err = ioutil.WriteFile(path, data, 0644)
	}
	return err
}

func GetAppConfiguration(config interface{}) error {
	return GetConfiguration(config, getAppConfigPath())
}

func SaveAppConfiguration(config interface{}) error {
	return SaveConfiguration(config, getAppConfigPath())
}
