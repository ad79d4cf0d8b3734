package backend

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/gateway/memory"
	"kakeibo/internal/gateway/rest"
	"kakeibo/internal/gateway/sheets"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case RESTBackend:
		return f.createRESTBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRESTBackend(config Config) (*BackendResult, error) {
	if config.SubmitURL == "" {
		return nil, fmt.Errorf("rest backend requires a submit URL")
	}

	client := rest.New(config.SubmitURL, config.CategoriesURL, config.Headers, nil)

	f.logger.Info("Initialized REST backend",
		"submit_url", config.SubmitURL,
		"categories_enabled", config.CategoriesURL != "")

	result := &BackendResult{Backend: client, Cleanup: nil}
	if config.CategoriesURL != "" {
		result.Categories = client
	}
	return result, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*BackendResult, error) {
	cli, err := sheets.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets ledger: %w", err)
	}

	f.logger.Info("Initialized Google Sheets ledger backend")

	return &BackendResult{Backend: cli, Cleanup: nil}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.New(nil)

	f.logger.Info("Initialized memory backend")

	return &BackendResult{Backend: store, Categories: store, Cleanup: nil}, nil
}
