package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
RPCAddress = ":8545"
DataDir = "/tmp/rewards"
OwnerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
MinQualifyingAmount = "100"
DailyCap = "1000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8545", cfg.RPCAddress)
	require.Equal(t, int64(100), cfg.GenesisMinQualifyingAmount().Int64())
	require.Equal(t, int64(1000), cfg.GenesisDailyCap().Int64())
	require.Equal(t, common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), cfg.Owner())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
OwnerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
MinQualifyingAmount = "100"
DailyCap = "1000"
Bogus = true
`)
	_, err := Load(path)
	require.ErrorContains(t, err, "unknown key")
}

func TestLoadRejectsBadPolicyValues(t *testing.T) {
	for name, body := range map[string]string{
		"zero cap": `
OwnerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
MinQualifyingAmount = "100"
DailyCap = "0"
`,
		"negative min": `
OwnerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
MinQualifyingAmount = "-5"
DailyCap = "1000"
`,
		"non-numeric": `
OwnerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
MinQualifyingAmount = "lots"
DailyCap = "1000"
`,
		"missing owner": `
MinQualifyingAmount = "100"
DailyCap = "1000"
`,
		"zero owner": `
OwnerAddress = "0x0000000000000000000000000000000000000000"
MinQualifyingAmount = "100"
DailyCap = "1000"
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	_, err := Load(path)
	require.ErrorContains(t, err, "set OwnerAddress")
	require.FileExists(t, path)

	// The generated file still refuses to load until an owner is set.
	_, err = Load(path)
	require.Error(t, err)
}
