package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/adapters/storage"
	"github.com/stoik/email-guard/internal/config"
	"github.com/stoik/email-guard/internal/ports"
)

// HistoryFactory creates history stores based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryStore creates a history store based on the configuration
func (f *HistoryFactory) CreateHistoryStore() (ports.HistoryStore, error) {
	historyCfg, err := f.cfg.History()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Opening history store", zap.String("type", historyCfg.Type))

	switch historyCfg.Type {
	case "memory", "":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return storage.NewSQLiteStore(historyCfg.SQLitePath, f.logger)
	case "postgres":
		return storage.NewPostgresStore(historyCfg.PostgresDSN, f.logger)
	case "mysql":
		return storage.NewMySQLStore(historyCfg.MySQLDSN, f.logger)
	case "redis":
		return storage.NewRedisStore(historyCfg.RedisAddr, f.logger)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
