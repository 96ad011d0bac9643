package main

import (
	"context"
	"fmt"
	"math/rand"

	"pickmydegree/internal/app"
	"pickmydegree/internal/config"
	"pickmydegree/internal/dataset"
	"pickmydegree/internal/domain"
	"pickmydegree/internal/storage/sqlite"

	"go.uber.org/zap"
)

// session is one command invocation over the saved run.
type session struct {
	cfg     config.GameConfig
	locale  string
	catalog []domain.Degree
	store   *sqlite.Store
	engine  *app.Engine
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	catalog, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	s := &session{
		cfg:     cfg,
		locale:  cfg.DefaultLocale,
		catalog: catalog,
		store:   store,
		engine:  app.NewEngine(store.StateStore(cfg.StorageKey), catalog, newRand()),
	}
	if locale != "" {
		s.locale = locale
	}
	s.engine.Init(ctx)
	s.logEvents()
	return s, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

func (s *session) logEvents() {
	for _, ev := range s.engine.DrainEvents() {
		logger.Debug("Engine event", zap.String("kind", string(ev.Kind)), zap.Any("payload", ev.Payload))
	}
}

// check turns a refused operation into a command error.
func (s *session) check(res app.Result) error {
	s.logEvents()
	if !res.Success {
		logger.Info("Operation refused", zap.Error(res.Err))
		return fmt.Errorf("%s", res.Message)
	}
	return nil
}

func newRand() *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}
