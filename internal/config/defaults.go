package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// AppDefaultApplier handles application option defaults.
type AppDefaultApplier struct{}

func (a *AppDefaultApplier) Domain() string { return "app" }

func (a *AppDefaultApplier) ApplyDefaults(cfg *Config) error {
	switch cfg.App.Type {
	case AppTypeMife:
		if cfg.App.Mife == nil {
			cfg.App.Mife = &MifeOptions{}
		}
		if cfg.App.Mife.IndexEntry == "" {
			cfg.App.Mife.IndexEntry = "index.html"
		}
		if cfg.App.Mife.SpaEntry == "" {
			cfg.App.Mife.SpaEntry = "src/spa.ts"
		}
	case AppTypeRoot:
		if cfg.App.Root == nil {
			cfg.App.Root = &RootOptions{}
		}
		if cfg.App.Root.ImportMaps == nil {
			cfg.App.Root.ImportMaps = &ImportMapsOptions{}
		}
		if cfg.App.Root.ImportMaps.Type == "" {
			cfg.App.Root.ImportMaps.Type = MapTypeOverridable
		}
		ui := &cfg.App.Root.ImoUi
		if !ui.Disabled && ui.EffectiveVariant() == ImoUiFull {
			if ui.ButtonPos == "" {
				ui.ButtonPos = ButtonPosBottomRight
			}
			if ui.LocalStorageKey == "" {
				ui.LocalStorageKey = "imo-ui"
			}
		}
	}
	return nil
}

// ServeDefaultApplier handles dev server defaults.
type ServeDefaultApplier struct{}

func (s *ServeDefaultApplier) Domain() string { return "serve" }

func (s *ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Host == "" {
		cfg.Serve.Host = "localhost"
	}
	if cfg.Serve.Port <= 0 {
		cfg.Serve.Port = 4100
	}
	if cfg.Serve.HTMLPath == "" {
		cfg.Serve.HTMLPath = "index.html"
	}
	if cfg.Serve.EventStorePath == "" {
		cfg.Serve.EventStorePath = ":memory:"
	}
	if cfg.Serve.WatchDebounceMS <= 0 {
		cfg.Serve.WatchDebounceMS = 300
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

// defaultAppliers lists all domain appliers in application order.
var defaultAppliers = []DefaultApplier{
	&AppDefaultApplier{},
	&ServeDefaultApplier{},
	&LoggingDefaultApplier{},
}

// ApplyDefaults runs every domain applier against the config.
func ApplyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
