package container

import (
	"fmt"

	"findash/adapters/datareadiness/coercer"
	"findash/adapters/excel"
	"findash/app"
	"findash/internal"
	"findash/internal/classifier"
	"findash/internal/config"
	"findash/ui"
)

// Container holds all application dependencies built from one configuration
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Ingestion
	Coercer      *coercer.TypeCoercer
	ReaderConfig excel.ReaderConfig

	// Analysis
	Classifier *classifier.Classifier
	Service    *app.DashboardService
}

// New creates a container; cfg must already be validated
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))

	readerCfg := excel.DefaultReaderConfig()
	readerCfg.SheetName = cfg.Analysis.SheetName
	readerCfg.CoercionConfig.TimestampThreshold = cfg.Analysis.TimestampThreshold

	c := coercer.NewTypeCoercer(readerCfg.CoercionConfig)
	cls := classifier.New(c)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Coercer:      c,
		ReaderConfig: readerCfg,
		Classifier:   cls,
		Service:      app.NewDashboardService(cls, logger, cfg.Analysis.DefaultHorizon),
	}, nil
}

// FileReader returns a reader for a CSV or XLSX file using the configured ingestion settings
func (c *Container) FileReader(path string) *excel.DataReader {
	return excel.NewDataReader(path, c.ReaderConfig).WithLogger(c.Logger.With("DataReader"))
}

// Server builds the HTTP API server
func (c *Container) Server() *ui.Server {
	return ui.NewServer(c.Service, c.Coercer, c.Config.Server, c.Logger)
}
