package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/spaforge/internal/config"
)

func mifeOptions(port int, deployedBase string) config.AppOptions {
	return config.AppOptions{
		Type: config.AppTypeMife,
		Mife: &config.MifeOptions{
			ServerPort:   port,
			DeployedBase: deployedBase,
		},
	}
}

func TestResolveRootIsEmpty(t *testing.T) {
	opts := config.AppOptions{Type: config.AppTypeRoot, Root: &config.RootOptions{}}

	for _, command := range []config.Command{config.CommandServe, config.CommandBuild} {
		cfg := Resolve(opts, config.Environment{Command: command, Mode: "production"})
		assert.True(t, cfg.IsEmpty(), "command %s", command)
	}
}

func TestResolveMifePorts(t *testing.T) {
	for _, command := range []config.Command{config.CommandServe, config.CommandBuild} {
		t.Run(string(command), func(t *testing.T) {
			cfg := Resolve(mifeOptions(4101, ""), config.Environment{Command: command})

			require.NotNil(t, cfg.Server)
			require.NotNil(t, cfg.Preview)
			assert.Equal(t, 4101, cfg.Server.Port)
			assert.Equal(t, 4101, cfg.Preview.Port)
		})
	}
}

func TestResolveMifeBase(t *testing.T) {
	tests := []struct {
		name         string
		deployedBase string
		want         string
	}{
		{"default localhost base", "", "http://localhost:4101"},
		{"explicit deployed base", "https://cdn.example.com/navbar/", "https://cdn.example.com/navbar/"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, command := range []config.Command{config.CommandServe, config.CommandBuild} {
				cfg := Resolve(mifeOptions(4101, test.deployedBase), config.Environment{Command: command})
				assert.Equal(t, test.want, cfg.Base, "command %s", command)
			}
		})
	}
}

func TestResolveMifeServeEntry(t *testing.T) {
	cfg := Resolve(mifeOptions(4101, ""), config.Environment{Command: config.CommandServe})

	require.NotNil(t, cfg.Build)
	assert.Equal(t, map[string]string{"index": "index.html"}, cfg.Build.RollupOptions.Input)
	assert.Equal(t, PreserveSignaturesFalse, cfg.Build.RollupOptions.PreserveEntrySignatures)
}

func TestResolveMifeBuildEntry(t *testing.T) {
	cfg := Resolve(mifeOptions(4101, ""), config.Environment{Command: config.CommandBuild})

	require.NotNil(t, cfg.Build)
	assert.Equal(t, map[string]string{"spa": "src/spa.ts"}, cfg.Build.RollupOptions.Input)
	assert.Equal(t, PreserveSignaturesExportsOnly, cfg.Build.RollupOptions.PreserveEntrySignatures)
}

func TestResolveMifeCustomEntries(t *testing.T) {
	opts := config.AppOptions{
		Type: config.AppTypeMife,
		Mife: &config.MifeOptions{
			ServerPort: 4102,
			IndexEntry: "dev.html",
			SpaEntry:   "src/main.tsx",
		},
	}

	serve := Resolve(opts, config.Environment{Command: config.CommandServe})
	assert.Equal(t, "dev.html", serve.Build.RollupOptions.Input["index"])

	build := Resolve(opts, config.Environment{Command: config.CommandBuild})
	assert.Equal(t, "src/main.tsx", build.Build.RollupOptions.Input["spa"])
}

func TestResolveMifeBuildOutputHasNoHash(t *testing.T) {
	cfg := Resolve(mifeOptions(4101, ""), config.Environment{Command: config.CommandBuild})

	require.NotNil(t, cfg.Build.RollupOptions.Output)
	out := cfg.Build.RollupOptions.Output
	assert.False(t, strings.Contains(out.AssetFileNames, "[hash]"), "assetFileNames must be hash-free: %s", out.AssetFileNames)
	assert.False(t, strings.Contains(out.EntryFileNames, "[hash]"), "entryFileNames must be hash-free: %s", out.EntryFileNames)
}

func TestResolveMifeServeHasNoOutputNaming(t *testing.T) {
	cfg := Resolve(mifeOptions(4101, ""), config.Environment{Command: config.CommandServe})
	assert.Nil(t, cfg.Build.RollupOptions.Output)
}

func TestResolveUnknownTypeIsEmpty(t *testing.T) {
	cfg := Resolve(config.AppOptions{Type: "widget"}, config.Environment{Command: config.CommandServe})
	assert.True(t, cfg.IsEmpty())
}

func TestResolveMifeNilOptionsIsEmpty(t *testing.T) {
	cfg := Resolve(config.AppOptions{Type: config.AppTypeMife}, config.Environment{Command: config.CommandServe})
	assert.True(t, cfg.IsEmpty())
}

func TestResolveIsIndependentAcrossInvocations(t *testing.T) {
	opts := mifeOptions(4101, "")
	first := Resolve(opts, config.Environment{Command: config.CommandBuild})
	first.Build.RollupOptions.Input["spa"] = "mutated"

	second := Resolve(opts, config.Environment{Command: config.CommandBuild})
	assert.Equal(t, "src/spa.ts", second.Build.RollupOptions.Input["spa"])
}
