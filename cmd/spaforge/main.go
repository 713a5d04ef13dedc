package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/spaforge/internal/config"
	"git.home.luguber.info/inful/spaforge/internal/eventstore"
	"git.home.luguber.info/inful/spaforge/internal/htmlinject"
	"git.home.luguber.info/inful/spaforge/internal/htmlpage"
	"git.home.luguber.info/inful/spaforge/internal/importmap"
	"git.home.luguber.info/inful/spaforge/internal/metrics"
	"git.home.luguber.info/inful/spaforge/internal/observability"
	"git.home.luguber.info/inful/spaforge/internal/resolver"
	"git.home.luguber.info/inful/spaforge/internal/server"
	"git.home.luguber.info/inful/spaforge/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"spaforge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Resolve struct {
		Command string `help:"Bundler command to resolve for (serve or build)" default:"serve"`
		Mode    string `help:"Bundler mode (e.g. development, production)" default:"development"`
		YAML    bool   `help:"Print the resolved configuration as YAML instead of JSON"`
	} `cmd:"" help:"Print the resolved bundler configuration for the configured application"`

	Inject struct {
		Input   string `arg:"" help:"HTML file to transform"`
		Output  string `short:"o" help:"Output path (defaults to in-place)"`
		Command string `help:"Bundler command context (serve or build)" default:"build"`
		Mode    string `help:"Bundler mode" default:"production"`
	} `cmd:"" help:"Apply the configured injections to an HTML file"`

	Serve struct {
		Mode string `help:"Bundler mode for import map selection" default:"development"`
	} `cmd:"" help:"Start the dev server for a root application"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "resolve":
		cfg := loadConfig()
		if err := runResolve(cfg, CLI.Resolve.Command, CLI.Resolve.Mode, CLI.Resolve.YAML); err != nil {
			slog.Error("Resolve failed", "error", err)
			os.Exit(1)
		}
	case "inject <input>":
		cfg := loadConfig()
		if err := runInject(cfg, CLI.Inject.Input, CLI.Inject.Output, CLI.Inject.Command, CLI.Inject.Mode); err != nil {
			slog.Error("Inject failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		cfg := loadConfig()
		if err := runServe(cfg, CLI.Serve.Mode); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "init":
		observability.SetupLogger(CLI.Verbose, false)
		slog.Info("Initializing configuration", "path", CLI.Config, "force", CLI.Init.Force)
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("spaforge %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

// loadConfig loads the configuration file and installs the process logger
// from its logging section. Load failures are fatal for every command except
// init and version.
func loadConfig() *config.Config {
	observability.SetupLogger(CLI.Verbose, false)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err, "path", CLI.Config)
		os.Exit(1)
	}

	verbose := CLI.Verbose || cfg.Logging.Level == config.LogLevelDebug
	observability.SetupLogger(verbose, cfg.Logging.Format == config.LogFormatJSON)
	return cfg
}

func runResolve(cfg *config.Config, command, mode string, asYAML bool) error {
	env := config.Environment{Command: config.Command(command), Mode: mode}
	resolved := resolver.Resolve(cfg.App, env)

	var (
		out []byte
		err error
	)
	if asYAML {
		out, err = yaml.Marshal(resolved)
	} else {
		out, err = json.MarshalIndent(resolved, "", "  ")
	}
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func runInject(cfg *config.Config, input, output, command, mode string) error {
	ctx := observability.WithCommand(context.Background(), command)
	env := config.Environment{Command: config.Command(command), Mode: mode}

	doc, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	files := importmap.NewOSFileResolver(".")
	registry, err := htmlinject.NewPipeline(cfg.App, files, nil)
	if err != nil {
		return err
	}

	tags, err := registry.Apply(ctx, &htmlinject.Context{Document: input, Env: env})
	if err != nil {
		return err
	}

	result, err := htmlpage.Inject(doc, tags)
	if err != nil {
		return err
	}

	if output == "" {
		output = input
	}
	if err := os.WriteFile(output, result, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	slog.Info("Injection complete", "input", input, "output", output, "tags", len(tags))
	return nil
}

func runServe(cfg *config.Config, mode string) error {
	if cfg.App.Type != config.AppTypeRoot {
		return fmt.Errorf("serve requires a root application, got type %q", cfg.App.Type)
	}

	files := importmap.NewOSFileResolver(".")

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		promReg  *prom.Registry
	)
	if cfg.Serve.Metrics {
		promReg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promReg)
	}

	registry, err := htmlinject.NewPipeline(cfg.App, files, recorder)
	if err != nil {
		return err
	}

	events, err := eventstore.NewSQLiteStore(cfg.Serve.EventStorePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			slog.Warn("Failed to close event store", "error", err)
		}
	}()

	srv := server.New(server.Options{
		Config:       cfg,
		Mode:         mode,
		Registry:     registry,
		Files:        files,
		Recorder:     recorder,
		Events:       events,
		PromRegistry: promReg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting dev server",
		"host", cfg.Serve.Host,
		"port", cfg.Serve.Port,
		"mode", mode,
		"session", srv.SessionID())
	return srv.Run(ctx)
}
