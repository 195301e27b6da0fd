package di

import (
	"net/http"

	"go.uber.org/dig"

	"github.com/stoik/email-guard/internal/application"
	"github.com/stoik/email-guard/internal/config"
	"github.com/stoik/email-guard/internal/domain"
	"github.com/stoik/email-guard/internal/domain/detection"
	"github.com/stoik/email-guard/internal/factory"
	"github.com/stoik/email-guard/internal/httpapi"
	"github.com/stoik/email-guard/internal/logging"
	"github.com/stoik/email-guard/internal/metrics"
	"github.com/stoik/email-guard/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}
	if err := provideServices(container); err != nil {
		return nil, err
	}
	return container, nil
}

// BuildContainerWithConfig creates a container around an already loaded configuration
func BuildContainerWithConfig(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := provideServices(container); err != nil {
		return nil, err
	}
	return container, nil
}

func provideServices(container *dig.Container) error {
	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return err
	}

	// Register clock and metrics
	if err := container.Provide(func() domain.Clock { return domain.SystemClock{} }); err != nil {
		return err
	}
	if err := container.Provide(metrics.New); err != nil {
		return err
	}
	if err := container.Provide(func(m *metrics.Metrics) application.Recorder { return m }); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDetectorFactory); err != nil {
		return err
	}

	// Register history store
	if err := container.Provide(func(f *factory.HistoryFactory) (ports.HistoryStore, error) {
		return f.CreateHistoryStore()
	}); err != nil {
		return err
	}

	// Register detection pipeline
	if err := container.Provide(func(f *factory.DetectorFactory) (*detection.Detector, error) {
		return f.CreateDetector()
	}); err != nil {
		return err
	}

	// Register identity resolver and event publisher
	if err := container.Provide(factory.CreateIdentityResolver); err != nil {
		return err
	}
	if err := container.Provide(factory.CreateEventPublisher); err != nil {
		return err
	}

	// Register scan service
	if err := container.Provide(func(cfg *config.Config) (application.Options, error) {
		historyCfg, err := cfg.History()
		if err != nil {
			return application.Options{}, err
		}
		return application.Options{
			DefaultHistoryLimit: historyCfg.DefaultLimit,
			MaxHistoryLimit:     historyCfg.MaxLimit,
			MaxEmailBytes:       cfg.Scan().MaxEmailBytes,
		}, nil
	}); err != nil {
		return err
	}
	if err := container.Provide(application.NewScanService); err != nil {
		return err
	}

	// Register HTTP server settings and handler
	if err := container.Provide(func(cfg *config.Config) (config.ServerConfig, error) {
		return cfg.Server()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config, server config.ServerConfig) httpapi.Options {
		maxEmail := cfg.Scan().MaxEmailBytes
		if maxEmail <= 0 {
			maxEmail = application.DefaultMaxEmailSize
		}
		return httpapi.Options{
			AllowedOrigins: server.AllowedOrigins,
			CookieName:     cfg.Auth().CookieName,
			// JSON escaping can grow the text up to six times
			MaxBodyBytes: int64(maxEmail)*6 + 1024,
		}
	}); err != nil {
		return err
	}
	if err := container.Provide(func(p routerParams) http.Handler {
		return httpapi.NewRouter(p.Scans, p.Identities, p.History, p.Metrics, p.Logger, p.Options)
	}); err != nil {
		return err
	}

	return nil
}
