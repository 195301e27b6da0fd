package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/application"
	"github.com/stoik/email-guard/internal/httpapi"
	"github.com/stoik/email-guard/internal/metrics"
	"github.com/stoik/email-guard/internal/ports"
)

type routerParams struct {
	dig.In

	Scans      *application.ScanService
	Identities ports.IdentityResolver
	History    ports.HistoryStore
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Options    httpapi.Options
}
