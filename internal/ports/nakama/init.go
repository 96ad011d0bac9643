package nakama

import (
	"context"
	"database/sql"

	"pickmydegree/internal/config"
	"pickmydegree/internal/dataset"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Runtime env keys (Nakama runtime.env) that override the game config.
const (
	envStorageKey  = "pmd_storage_key"
	envDatasetPath = "pmd_dataset_path"
	envCertSecret  = "pmd_cert_secret"
	envCertIssuer  = "pmd_cert_issuer"
	envLocale      = "pmd_default_locale"
)

// InitModule loads the config and catalog and registers the game RPCs.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(config.DefaultPath); err != nil {
		logger.Warn("InitModule: Could not load game config: %v", err)
	}
	cfg := *config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		applyRuntimeEnv(&cfg, env)
	}

	catalog, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Error("InitModule: Failed to load degree catalog: %v", err)
		return err
	}

	module := NewModule(cfg, catalog)
	if err := module.RegisterRPCs(initializer); err != nil {
		return err
	}
	if !cfg.CertificatesEnabled() {
		logger.Warn("Certificate secret missing, %s will be unavailable.", RpcCertificate)
	}

	logger.Info("Pick My Degree module loaded with %d degrees in %d categories.", len(catalog), len(dataset.Categories(catalog)))
	return nil
}

func applyRuntimeEnv(cfg *config.GameConfig, env map[string]string) {
	if v := env[envStorageKey]; v != "" {
		cfg.StorageKey = v
	}
	if v := env[envDatasetPath]; v != "" {
		cfg.DatasetPath = v
	}
	if v := env[envCertSecret]; v != "" {
		cfg.CertificateSecret = v
	}
	if v := env[envCertIssuer]; v != "" {
		cfg.CertificateIssuer = v
	}
	if v := env[envLocale]; v != "" {
		cfg.DefaultLocale = v
	}
}
