package common

import (
	"context"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func TestWeiString(t *testing.T) {
	toTest := []struct {
		wei  *big.Int
		want string
	}{
		{nil, "0 Wei"},
		{big.NewInt(21000), "21,000 Wei"},
		{big.NewInt(2 * GWeiToWei), "2 GWei"},
		{new(big.Int).Mul(big.NewInt(3), big.NewInt(EthToWei)), "3 Eth"},
	}
	for _, cur := range toTest {
		assert.Equal(t, cur.want, WeiString(cur.wei))
	}
}

func TestGasCost(t *testing.T) {
	assert.Equal(t, int64(42000), GasCost(21000, big.NewInt(2)).Int64())
	assert.Equal(t, int64(0), GasCost(21000, nil).Int64())
}

func TestWaitForCompletion(t *testing.T) {
	calls := 0
	res, ok := WaitForCompletion(time.Millisecond, time.Second, func() (interface{}, bool) {
		calls++
		return calls, calls == 3
	})
	assert.Assert(t, ok)
	assert.Equal(t, 3, res)
}

func TestWaitForCompletionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, ok := WaitForCompletionCtx(ctx, time.Hour, func() (interface{}, bool) {
		return nil, false
	})
	assert.Assert(t, !ok)
	assert.Assert(t, res == nil)
}

func TestConfigurationRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "ignition")
	assert.NilError(t, err)
	defer os.RemoveAll(dir)

	type conf struct {
		Name string   `json:"name"`
		Urls []string `json:"urls"`
	}
	path := filepath.Join(dir, "test.config")
	err = GetConfiguration(&conf{}, path)
	assert.Assert(t, errors.Is(err, os.ErrNotExist))

	want := conf{"x", []string{"http://localhost:8545"}}
	assert.NilError(t, SaveConfiguration(&want, path))
	var got conf
	assert.NilError(t, GetConfiguration(&got, path))
	assert.DeepEqual(t, want, got)
}

func TestLoggingLevelFromName(t *testing.T) {
	assert.Equal(t, LogLevelWarning, LoggingLevelFromName("Warning"))
	assert.Equal(t, LogLevelUnknown, LoggingLevelFromName("verbose"))
	assert.Equal(t, "debug", LogLevelDebug.String())
}

func TestSameStrings(t *testing.T) {
	toTest := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{nil, []string{}, true},
		{[]string{"x"}, []string{"x"}, true},
		{[]string{"x", "y"}, []string{"y", "x"}, false},
		{[]string{"x"}, []string{"x", "y"}, false},
	}
	for i, tt := range toTest {
		assert.Equal(t, tt.want, SameStrings(tt.a, tt.b), "case %d", i)
	}
}

func TestDefaultToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	assert.NilError(t, err)
	assert.Equal(t, filepath.Join(wd, "artifacts"), DefaultToWorkingDir("artifacts"))
	full := filepath.Join(wd, "x")
	assert.Equal(t, full, DefaultToWorkingDir(full))
}
