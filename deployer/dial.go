package deployer

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	. "github.com/archoncloud/chainsphere-ignition/common"
)

// DialFirstResponding connects to the first url that answers with its chain id
func DialFirstResponding(ctx context.Context, urls []string) (*ethclient.Client, *big.Int, error) {
	if len(urls) == 0 {
		return nil, nil, errors.New("no rpc urls configured")
	}
	for _, url := range urls {
		client, chainID, err := dial(ctx, url)
		if err != nil {
			LogWarning.Printf("%s is not responding: %v\n", url, err)
			continue
		}
		LogInfo.Printf("Connected to %s, chain id %s\n", url, chainID)
		return client, chainID, nil
	}
	return nil, nil, errors.Errorf("none of the rpc urls is responding: %v", urls)
}

func dial(ctx context.Context, url string) (*ethclient.Client, *big.Int, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := ethclient.DialContext(dialCtx, url)
	if err != nil {
		return nil, nil, err
	}
	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, chainID, nil
}
