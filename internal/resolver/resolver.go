// Package resolver derives partial bundler configuration from the application
// options and the current build environment. Resolution is a pure function:
// no I/O, no shared state, safe for concurrent use.
package resolver

import (
	"fmt"

	"git.home.luguber.info/inful/spaforge/internal/config"
)

// PreserveSignatures is the module-preservation policy handed to the bundler.
type PreserveSignatures string

const (
	// PreserveSignaturesFalse imposes no published-exports contract (dev only).
	PreserveSignaturesFalse PreserveSignatures = "false"

	// PreserveSignaturesExportsOnly keeps the emitted module's exports surface
	// exact, so a root application's import map resolves named exports.
	PreserveSignaturesExportsOnly PreserveSignatures = "exports-only"
)

// Output naming patterns for mife builds. Deliberately hash-free: deployed
// URLs must stay stable across rebuilds so a root application's pinned import
// map entry keeps working without redeploying the root shell.
const (
	AssetFileNames = "assets/[name][extname]"
	EntryFileNames = "[name].js"
)

// Input keys for the two entry points.
const (
	InputKeyIndex = "index"
	InputKeySpa   = "spa"
)

// ResolvedConfig is the partial bundler configuration produced per invocation.
// For root applications every field stays unset: the root is a static
// container whose bundler behavior is unmodified.
type ResolvedConfig struct {
	Base    string         `json:"base,omitempty" yaml:"base,omitempty"`
	Server  *ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
	Preview *PreviewConfig `json:"preview,omitempty" yaml:"preview,omitempty"`
	Build   *BuildConfig   `json:"build,omitempty" yaml:"build,omitempty"`
}

// ServerConfig carries the dev server port.
type ServerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// PreviewConfig carries the production preview port.
type PreviewConfig struct {
	Port int `json:"port" yaml:"port"`
}

// BuildConfig carries rollup build configuration.
type BuildConfig struct {
	RollupOptions RollupOptions `json:"rollupOptions" yaml:"rollupOptions"`
}

// RollupOptions is the subset of rollup configuration this tool decides.
type RollupOptions struct {
	Input                   map[string]string  `json:"input" yaml:"input"`
	PreserveEntrySignatures PreserveSignatures `json:"preserveEntrySignatures" yaml:"preserveEntrySignatures"`
	Output                  *OutputOptions     `json:"output,omitempty" yaml:"output,omitempty"`
}

// OutputOptions names emitted files.
type OutputOptions struct {
	AssetFileNames string `json:"assetFileNames" yaml:"assetFileNames"`
	EntryFileNames string `json:"entryFileNames" yaml:"entryFileNames"`
}

// IsEmpty reports whether the configuration carries no fields at all.
func (c ResolvedConfig) IsEmpty() bool {
	return c.Base == "" && c.Server == nil && c.Preview == nil && c.Build == nil
}

// Resolve maps (options, environment) to bundler configuration. Root
// applications impose none; mife bundles get port, base, entry, and output
// configuration keyed on the active command.
func Resolve(opts config.AppOptions, env config.Environment) ResolvedConfig {
	switch opts.Type {
	case config.AppTypeRoot:
		return ResolvedConfig{}
	case config.AppTypeMife:
		return resolveMife(opts.Mife, env)
	default:
		return ResolvedConfig{}
	}
}

func resolveMife(m *config.MifeOptions, env config.Environment) ResolvedConfig {
	if m == nil {
		return ResolvedConfig{}
	}

	base := m.DeployedBase
	if base == "" {
		// Without an explicit deployment URL the mife is served from its own
		// dev port, and root apps reference it there even in builds.
		base = fmt.Sprintf("http://localhost:%d", m.ServerPort)
	}

	cfg := ResolvedConfig{
		Base:    base,
		Server:  &ServerConfig{Port: m.ServerPort},
		Preview: &PreviewConfig{Port: m.ServerPort},
	}

	indexEntry := m.IndexEntry
	if indexEntry == "" {
		indexEntry = "index.html"
	}
	spaEntry := m.SpaEntry
	if spaEntry == "" {
		spaEntry = "src/spa.ts"
	}

	switch env.Command {
	case config.CommandBuild:
		cfg.Build = &BuildConfig{
			RollupOptions: RollupOptions{
				Input:                   map[string]string{InputKeySpa: spaEntry},
				PreserveEntrySignatures: PreserveSignaturesExportsOnly,
				Output: &OutputOptions{
					AssetFileNames: AssetFileNames,
					EntryFileNames: EntryFileNames,
				},
			},
		}
	default:
		// serve
		cfg.Build = &BuildConfig{
			RollupOptions: RollupOptions{
				Input:                   map[string]string{InputKeyIndex: indexEntry},
				PreserveEntrySignatures: PreserveSignaturesFalse,
			},
		}
	}

	return cfg
}
