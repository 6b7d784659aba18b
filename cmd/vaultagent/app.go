package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/chatlog"
	"github.com/user/vaultagent/src/config"
	"github.com/user/vaultagent/src/gateway"
	"github.com/user/vaultagent/src/orchestrator"
	"github.com/user/vaultagent/src/storage"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent"
)

// App bundles the wired collaborators for one CLI invocation.
type App struct {
	Config       *config.Config
	Logger       *slog.Logger
	Vault        *vault.Vault
	Store        *chatlog.Store
	Model        aisdk.ModelClient
	Toolbox      *agent.Toolbox
	Orchestrator *orchestrator.Orchestrator
	Index        *storage.DB
}

func initApp(cli *CLI) (*App, error) {
	logger := createCLILogger(cli.LogLevel)

	configPath := cli.Config
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cli.Vault != "" {
		cfg.Vault.Path = cli.Vault
	}

	info, err := os.Stat(cfg.Vault.Path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault path %q is not a directory", cfg.Vault.Path)
	}
	fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.Vault.Path)

	v := vault.New(fs, logger)
	store := chatlog.NewStore(fs, logger)

	model, err := gateway.NewClient(gateway.Config{
		Provider: gateway.ProviderType(cfg.API.Provider),
		Model:    cfg.API.Model,
		APIKey:   cfg.API.APIKey,
		BaseURL:  cfg.API.BaseURL,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	toolbox, err := vaultagent.DefaultToolbox(v, model, vaultagent.Settings{
		Rules:         cfg.Agent.Rules,
		CaptionImages: cfg.Tools.CaptionImages,
		BraveAPIKey:   cfg.Tools.BraveAPIKey,
	}, logger)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(orchestrator.Config{
		Store:         store,
		Vault:         v,
		Model:         model,
		Toolbox:       toolbox,
		Logger:        logger,
		Rules:         cfg.Agent.Rules,
		HistoryBudget: cfg.Agent.HistoryBudget,
	})

	indexPath := config.DefaultIndexPath()
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	index, err := storage.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat index: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		Vault:        v,
		Store:        store,
		Model:        model,
		Toolbox:      toolbox,
		Orchestrator: orch,
		Index:        index,
	}, nil
}

func (a *App) Close() {
	if a.Index != nil {
		a.Index.Close()
	}
}

// chatFiles lists every chat file under the configured chats folder.
func (a *App) chatFiles() ([]string, error) {
	fs := a.Vault.Fs()
	dir := a.Config.Vault.ChatsDir
	if ok, err := afero.DirExists(fs, dir); err != nil || !ok {
		return nil, nil
	}
	var out []string
	err := afero.Walk(fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(p) == ".md" {
			out = append(out, filepath.ToSlash(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
