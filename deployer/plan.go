package deployer

import (
	"fmt"
	"strings"
)

const (
	StatusToDeploy = "to deploy"
	StatusPending  = "pending"
	StatusDeployed = "deployed"
)

// PlannedDeployment describes what a run would do with one future
type PlannedDeployment struct {
	FutureID     string
	ContractName string
	Args         []string
	ExportName   string
	Status       string
	// set when deployed or pending
	Address string
	TxHash  string
}

func (p *PlannedDeployment) String() string {
	s := fmt.Sprintf("%s: %s(%s) [%s]", p.FutureID, p.ContractName, strings.Join(p.Args, ", "), p.Status)
	if p.Address != "" {
		s += " at " + p.Address
	}
	if p.TxHash != "" {
		s += " tx " + p.TxHash
	}
	if p.ExportName != "" {
		s += " exported as " + p.ExportName
	}
	return s
}

// Plan describes the futures of m. With a nil journal every future is StatusToDeploy
func Plan(m *Module, j *Journal) ([]PlannedDeployment, error) {
	deployed := map[string]string{}
	if j != nil {
		var err error
		if deployed, err = j.DeployedAddresses(); err != nil {
			return nil, err
		}
	}
	var plan []PlannedDeployment
	for _, f := range m.Futures {
		p := PlannedDeployment{
			FutureID:     f.ID(),
			ContractName: f.ContractName(),
			Args:         f.Args(),
			ExportName:   m.ExportName(f.ID()),
			Status:       StatusToDeploy,
		}
		if a, ok := deployed[f.ID()]; ok {
			if err := checkUnchanged(j, f); err != nil {
				return nil, err
			}
			p.Status = StatusDeployed
			p.Address = a
		} else if j != nil {
			txHash, pending, err := j.PendingTx(f.ID())
			if err != nil {
				return nil, err
			}
			if pending {
				if err := checkUnchanged(j, f); err != nil {
					return nil, err
				}
				p.Status = StatusPending
				p.TxHash = txHash.Hex()
			}
		}
		plan = append(plan, p)
	}
	return plan, nil
}
