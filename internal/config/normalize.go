package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig performs canonicalization on enumerated and bounded fields
// prior to default application. It mutates the provided config in-place and
// returns a result describing any coercions.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeApp(&c.App, res)
	normalizeLogging(&c.Logging, res)
	return res, nil
}

func normalizeApp(a *AppOptions, res *NormalizationResult) {
	if a == nil {
		return
	}
	// type tag
	if at := NormalizeAppType(string(a.Type)); at != "" {
		if a.Type != at {
			res.Warnings = append(res.Warnings, warnChanged("app.type", a.Type, at))
			a.Type = at
		}
	}
	// import map type
	if a.Root != nil && a.Root.ImportMaps != nil {
		im := a.Root.ImportMaps
		if mt := NormalizeMapType(string(im.Type)); mt != "" {
			if im.Type != mt {
				res.Warnings = append(res.Warnings, warnChanged("app.root.importMaps.type", im.Type, mt))
				im.Type = mt
			}
		} else if strings.TrimSpace(string(im.Type)) != "" {
			res.Warnings = append(res.Warnings, warnUnknown("app.root.importMaps.type", string(im.Type), string(MapTypeOverridable)))
			im.Type = MapTypeOverridable
		}
	}
	// UI variant
	if a.Root != nil {
		ui := &a.Root.ImoUi
		if v := NormalizeImoUiVariant(string(ui.Variant)); v != "" {
			if ui.Variant != v {
				res.Warnings = append(res.Warnings, warnChanged("app.root.imoUi.variant", ui.Variant, v))
				ui.Variant = v
			}
		} else if strings.TrimSpace(string(ui.Variant)) != "" {
			res.Warnings = append(res.Warnings, warnUnknown("app.root.imoUi.variant", string(ui.Variant), string(ImoUiFull)))
			ui.Variant = ImoUiFull
		}
	}
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if l == nil {
		return
	}
	if lvl := NormalizeLogLevel(strings.ToLower(string(l.Level))); lvl != "" {
		if l.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
			l.Level = lvl
		}
	} else if string(l.Level) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(l.Level), string(LogLevelInfo)))
		l.Level = LogLevelInfo
	}
	if f := NormalizeLogFormat(strings.ToLower(string(l.Format))); f != "" {
		if l.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
			l.Format = f
		}
	} else if string(l.Format) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(l.Format), string(LogFormatText)))
		l.Format = LogFormatText
	}
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("%s: normalized %v -> %v", field, from, to)
}

func warnUnknown(field, value, fallback string) string {
	return fmt.Sprintf("%s: unknown value %q, using %q", field, value, fallback)
}
