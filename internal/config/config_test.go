package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "spaforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMifeConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  type: mife
  mife:
    serverPort: 4101
    deployedBase: https://cdn.example.com/navbar/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, AppTypeMife, cfg.App.Type)
	require.NotNil(t, cfg.App.Mife)
	assert.Equal(t, 4101, cfg.App.Mife.ServerPort)
	assert.Equal(t, "https://cdn.example.com/navbar/", cfg.App.Mife.DeployedBase)

	// entry defaults
	assert.Equal(t, "index.html", cfg.App.Mife.IndexEntry)
	assert.Equal(t, "src/spa.ts", cfg.App.Mife.SpaEntry)

	// serve defaults
	assert.Equal(t, "localhost", cfg.Serve.Host)
	assert.Equal(t, 4100, cfg.Serve.Port)
	assert.Equal(t, ":memory:", cfg.Serve.EventStorePath)
}

func TestLoadRootConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  type: root
  root:
    importMaps:
      type: systemjs-importmap
      dev: custom/map.dev.json
    imo: "2.4.2"
    imoUi:
      buttonPos: top-left
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, AppTypeRoot, cfg.App.Type)
	require.NotNil(t, cfg.App.Root)
	require.NotNil(t, cfg.App.Root.ImportMaps)
	assert.Equal(t, MapTypeSystemJS, cfg.App.Root.ImportMaps.Type)
	assert.Equal(t, "custom/map.dev.json", cfg.App.Root.ImportMaps.Dev)
	assert.Equal(t, "2.4.2", cfg.App.Root.Imo.Version())

	// object form always yields full variant; unset key keeps its default
	assert.Equal(t, ImoUiFull, cfg.App.Root.ImoUi.EffectiveVariant())
	assert.Equal(t, "top-left", cfg.App.Root.ImoUi.ButtonPos)
	assert.Equal(t, "imo-ui", cfg.App.Root.ImoUi.LocalStorageKey)
}

func TestLoadRootConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  type: root
  root: {}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.App.Root.ImportMaps)
	assert.Equal(t, MapTypeOverridable, cfg.App.Root.ImportMaps.Type)
	assert.False(t, cfg.App.Root.Imo.Disabled())
	assert.Equal(t, "latest", cfg.App.Root.Imo.Version())
	assert.Equal(t, ImoUiFull, cfg.App.Root.ImoUi.EffectiveVariant())
	assert.Equal(t, ButtonPosBottomRight, cfg.App.Root.ImoUi.ButtonPos)
	assert.Equal(t, "imo-ui", cfg.App.Root.ImoUi.LocalStorageKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidPort(t *testing.T) {
	path := writeConfig(t, `
app:
  type: mife
  mife:
    serverPort: 99999
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadMissingType(t *testing.T) {
	path := writeConfig(t, `
app: {}
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("SPAFORGE_TEST_PORT", "4567")
	path := writeConfig(t, `
app:
  type: mife
  mife:
    serverPort: ${SPAFORGE_TEST_PORT}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4567, cfg.App.Mife.ServerPort)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spaforge.yaml")

	require.NoError(t, Init(path, false))

	// Refuses to overwrite without force
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	// Scaffolded file must load cleanly
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AppTypeMife, cfg.App.Type)
}
