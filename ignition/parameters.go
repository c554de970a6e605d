package ignition

import (
	"github.com/pkg/errors"

	"github.com/archoncloud/chainsphere-ignition/common"
)

const (
	ParamTokenAddressA = "tokenAddressA"
	ParamTokenAddressB = "tokenAddressB"
)

// Parameters holds per module overrides, as found in a parameters file:
//   {"LockModule": {"tokenAddressA": "0x...", "tokenAddressB": "0x..."}}
type Parameters map[string]map[string]string

func LoadParameters(path string) (Parameters, error) {
	var p Parameters
	if err := common.GetConfiguration(&p, path); err != nil {
		return nil, errors.Wrap(err, "parameters")
	}
	return p, nil
}

// Apply returns a copy of conf with the overrides for conf.Name applied.
// An empty tokenAddressB removes the second argument
func (p Parameters) Apply(conf *ModuleConfig) (*ModuleConfig, error) {
	out := *conf
	for k, v := range p[conf.Name] {
		switch k {
		case ParamTokenAddressA:
			out.TokenAddressA = v
		case ParamTokenAddressB:
			out.TokenAddressB = v
		default:
			return nil, errors.Errorf("unknown parameter %q for module %s", k, conf.Name)
		}
	}
	if out.TokenAddressA == "" {
		return nil, errors.Errorf("%s: %s cannot be empty", conf.Name, ParamTokenAddressA)
	}
	return &out, nil
}
