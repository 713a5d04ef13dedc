package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Command identifies which bundler phase is running.
type Command string

const (
	CommandServe Command = "serve"
	CommandBuild Command = "build"
)

// IsValid returns true if the command is recognized.
func (c Command) IsValid() bool {
	return c == CommandServe || c == CommandBuild
}

// Environment describes the host bundler invocation. Supplied once per
// invocation and never mutated by resolution.
type Environment struct {
	Command Command
	Mode    string
}

// AppType identifies which application variant the options describe.
// Exactly one variant governs resolution; the two variants require different
// behavior at every step, so all consumers switch exhaustively on this tag.
type AppType string

const (
	// AppTypeMife is a standalone micro-frontend bundle.
	AppTypeMife AppType = "mife"

	// AppTypeRoot is the top-level container application.
	AppTypeRoot AppType = "root"
)

// IsValid returns true if the application type is recognized.
func (t AppType) IsValid() bool {
	return t == AppTypeMife || t == AppTypeRoot
}

// NormalizeAppType canonicalizes an application type string, returning ""
// for unknown values.
func NormalizeAppType(s string) AppType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(AppTypeMife):
		return AppTypeMife
	case string(AppTypeRoot):
		return AppTypeRoot
	default:
		return ""
	}
}

// AppOptions is the per-application plugin configuration. The Type tag selects
// which of the two variant structs is active; the inactive one is nil.
type AppOptions struct {
	Type AppType      `yaml:"type"`
	Mife *MifeOptions `yaml:"mife,omitempty"`
	Root *RootOptions `yaml:"root,omitempty"`
}

// MifeOptions configures a standalone micro-frontend bundle.
type MifeOptions struct {
	// ServerPort is bound by both the dev server and the production preview,
	// so root applications can pin a stable import map URL. Range 1-65535.
	ServerPort int `yaml:"serverPort"`

	// DeployedBase overrides the base URL used in emitted asset references.
	// When empty the mife is assumed served from its own dev port.
	DeployedBase string `yaml:"deployedBase,omitempty"`

	// IndexEntry is the dev HTML entry point (default "index.html").
	IndexEntry string `yaml:"indexEntry,omitempty"`

	// SpaEntry is the library/module entry point root applications import
	// (default "src/spa.ts").
	SpaEntry string `yaml:"spaEntry,omitempty"`
}

// RootOptions configures the root container application.
type RootOptions struct {
	ImportMaps *ImportMapsOptions `yaml:"importMaps,omitempty"`
	Imo        ImoSetting         `yaml:"imo,omitempty"`
	ImoUi      ImoUiSetting       `yaml:"imoUi,omitempty"`
}

// MapType is the script type attribute attached to the injected import map.
type MapType string

const (
	MapTypeImportMap   MapType = "importmap"
	MapTypeShim        MapType = "importmap-shim"
	MapTypeOverridable MapType = "overridable-importmap"
	MapTypeSystemJS    MapType = "systemjs-importmap"
)

// NormalizeMapType canonicalizes a map type string, returning "" for unknown values.
func NormalizeMapType(s string) MapType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MapTypeImportMap):
		return MapTypeImportMap
	case string(MapTypeShim):
		return MapTypeShim
	case string(MapTypeOverridable):
		return MapTypeOverridable
	case string(MapTypeSystemJS):
		return MapTypeSystemJS
	default:
		return ""
	}
}

// ImportMapsOptions selects the import map source files and the declared type.
// Type selection is independent of which file ends up supplying the content.
type ImportMapsOptions struct {
	// Type defaults to overridable-importmap.
	Type MapType `yaml:"type,omitempty"`

	// Dev is the explicit map path probed under the serve command.
	Dev string `yaml:"dev,omitempty"`

	// Build is the explicit map path probed under the build command.
	Build string `yaml:"build,omitempty"`
}

// imoMode discriminates the import-map-overrides runtime setting.
type imoMode int

const (
	imoModeDefault imoMode = iota // unset: latest published build
	imoModeDisabled
	imoModeVersion
	imoModeURL
)

// ImoSetting controls injection of the import-map-overrides runtime script.
// The zero value means "enabled, latest published build". YAML accepts a bool
// (enable/disable) or a string (pinned version); custom URL delivery is only
// available programmatically via ImoCustomURL.
type ImoSetting struct {
	mode    imoMode
	version string
	urlFn   func() string
}

// ImoDisabled returns a setting that suppresses the overrides runtime.
func ImoDisabled() ImoSetting {
	return ImoSetting{mode: imoModeDisabled}
}

// ImoEnabled returns the default setting (latest published build).
func ImoEnabled() ImoSetting {
	return ImoSetting{mode: imoModeDefault}
}

// ImoPinned returns a setting that loads the given published version.
func ImoPinned(version string) ImoSetting {
	return ImoSetting{mode: imoModeVersion, version: version}
}

// ImoCustomURL returns a setting whose script src is produced by fn, for
// self-hosted or custom-CDN delivery. fn is invoked once per injection.
func ImoCustomURL(fn func() string) ImoSetting {
	return ImoSetting{mode: imoModeURL, urlFn: fn}
}

// Disabled reports whether the overrides runtime should not be injected.
func (s ImoSetting) Disabled() bool {
	return s.mode == imoModeDisabled
}

// Version returns the pinned version, or "latest" for the default setting.
func (s ImoSetting) Version() string {
	if s.mode == imoModeVersion && s.version != "" {
		return s.version
	}
	return "latest"
}

// CustomURL returns the custom script src and true when one is configured.
func (s ImoSetting) CustomURL() (string, bool) {
	if s.mode == imoModeURL && s.urlFn != nil {
		return s.urlFn(), true
	}
	return "", false
}

// UnmarshalYAML accepts a bool (enable/disable) or a version string.
func (s *ImoSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("imo: expected bool or string, got %s", value.Tag)
	}
	switch value.Tag {
	case "!!bool":
		var enabled bool
		if err := value.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			*s = ImoEnabled()
		} else {
			*s = ImoDisabled()
		}
		return nil
	case "!!str":
		var version string
		if err := value.Decode(&version); err != nil {
			return err
		}
		*s = ImoPinned(version)
		return nil
	default:
		return fmt.Errorf("imo: expected bool or string, got %s", value.Tag)
	}
}

// ImoUiVariant selects which overrides UI custom element is injected.
type ImoUiVariant string

const (
	ImoUiFull  ImoUiVariant = "full"
	ImoUiList  ImoUiVariant = "list"
	ImoUiPopup ImoUiVariant = "popup"
)

// NormalizeImoUiVariant canonicalizes a UI variant string, returning "" for
// unknown values.
func NormalizeImoUiVariant(s string) ImoUiVariant {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ImoUiFull):
		return ImoUiFull
	case string(ImoUiList):
		return ImoUiList
	case string(ImoUiPopup):
		return ImoUiPopup
	default:
		return ""
	}
}

// Button positions accepted by the full UI variant.
const (
	ButtonPosBottomLeft  = "bottom-left"
	ButtonPosBottomRight = "bottom-right"
	ButtonPosTopLeft     = "top-left"
	ButtonPosTopRight    = "top-right"
)

// ValidButtonPos reports whether pos is one of the four supported corners.
func ValidButtonPos(pos string) bool {
	switch pos {
	case ButtonPosBottomLeft, ButtonPosBottomRight, ButtonPosTopLeft, ButtonPosTopRight:
		return true
	default:
		return false
	}
}

// ImoUiSetting controls injection of the overrides UI custom element.
// The zero value means "full variant with defaults". The object form always
// yields the full variant; list and popup expose no configurable surface.
type ImoUiSetting struct {
	Disabled        bool
	Variant         ImoUiVariant
	ButtonPos       string
	LocalStorageKey string
}

// ImoUiDefault returns the default setting (full variant).
func ImoUiDefault() ImoUiSetting {
	return ImoUiSetting{}
}

// ImoUiDisabled returns a setting that suppresses the UI element.
func ImoUiDisabled() ImoUiSetting {
	return ImoUiSetting{Disabled: true}
}

// ImoUiWithVariant returns a setting for the given variant.
func ImoUiWithVariant(v ImoUiVariant) ImoUiSetting {
	return ImoUiSetting{Variant: v}
}

// EffectiveVariant returns the variant, defaulting unset to full.
func (s ImoUiSetting) EffectiveVariant() ImoUiVariant {
	if s.Variant == "" {
		return ImoUiFull
	}
	return s.Variant
}

// imoUiObject is the YAML mapping form of ImoUiSetting.
type imoUiObject struct {
	ButtonPos       string `yaml:"buttonPos"`
	LocalStorageKey string `yaml:"localStorageKey"`
}

// UnmarshalYAML accepts a bool, a variant name, or an object form
// {buttonPos, localStorageKey} which always selects the full variant.
func (s *ImoUiSetting) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		switch value.Tag {
		case "!!bool":
			var enabled bool
			if err := value.Decode(&enabled); err != nil {
				return err
			}
			if enabled {
				*s = ImoUiWithVariant(ImoUiFull)
			} else {
				*s = ImoUiDisabled()
			}
			return nil
		case "!!str":
			var raw string
			if err := value.Decode(&raw); err != nil {
				return err
			}
			v := NormalizeImoUiVariant(raw)
			if v == "" {
				return fmt.Errorf("imoUi: unknown variant %q", raw)
			}
			*s = ImoUiWithVariant(v)
			return nil
		default:
			return fmt.Errorf("imoUi: expected bool, variant name, or object, got %s", value.Tag)
		}
	case yaml.MappingNode:
		var obj imoUiObject
		if err := value.Decode(&obj); err != nil {
			return err
		}
		*s = ImoUiSetting{
			Variant:         ImoUiFull,
			ButtonPos:       obj.ButtonPos,
			LocalStorageKey: obj.LocalStorageKey,
		}
		return nil
	default:
		return fmt.Errorf("imoUi: expected bool, variant name, or object")
	}
}
