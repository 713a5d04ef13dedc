package config

import (
	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateApp(); err != nil {
		return err
	}
	if err := cv.validateServe(); err != nil {
		return err
	}
	return nil
}

// validateApp validates the application variant options.
func (cv *configurationValidator) validateApp() error {
	app := &cv.config.App

	switch app.Type {
	case AppTypeMife:
		if app.Mife == nil {
			return serrors.ConfigRequired("app.mife")
		}
		if app.Mife.ServerPort < 1 || app.Mife.ServerPort > 65535 {
			return serrors.ValidationFailed("app.mife.serverPort", "must be in range 1-65535")
		}
	case AppTypeRoot:
		if app.Root == nil {
			return serrors.ConfigRequired("app.root")
		}
		ui := app.Root.ImoUi
		if !ui.Disabled && ui.EffectiveVariant() == ImoUiFull && ui.ButtonPos != "" && !ValidButtonPos(ui.ButtonPos) {
			return serrors.ValidationFailed("app.root.imoUi.buttonPos",
				"must be one of bottom-left, bottom-right, top-left, top-right")
		}
	case "":
		return serrors.ConfigRequired("app.type")
	default:
		return serrors.ValidationFailed("app.type", "must be mife or root")
	}

	return nil
}

// validateServe validates dev server configuration.
func (cv *configurationValidator) validateServe() error {
	if cv.config.Serve.Port < 0 || cv.config.Serve.Port > 65535 {
		return serrors.ValidationFailed("serve.port", "must be in range 0-65535")
	}
	return nil
}
