package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/adapters/identity"
	"github.com/stoik/email-guard/internal/config"
	"github.com/stoik/email-guard/internal/ports"
)

// CreateIdentityResolver loads the user table, from a CSV file when one is configured
func CreateIdentityResolver(cfg *config.Config, logger *zap.Logger) (ports.IdentityResolver, error) {
	authCfg := cfg.Auth()

	if authCfg.UsersCSV != "" {
		resolver, err := identity.LoadCSV(authCfg.UsersCSV)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded user table", zap.String("file", authCfg.UsersCSV), zap.Int("users", resolver.Len()))
		return resolver, nil
	}

	resolver, err := identity.NewStaticResolver(authCfg.Tokens)
	if err != nil {
		return nil, fmt.Errorf("invalid auth.tokens: %w", err)
	}
	if resolver.Len() == 0 {
		logger.Warn("No session tokens configured, every request will be rejected")
	}
	return resolver, nil
}
