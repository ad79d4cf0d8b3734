package backend

import (
	"context"

	"kakeibo/internal/gateway"
)

// Backend is the submit target selected by configuration.
type Backend interface {
	gateway.ReceiptSubmitter
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult bundles the backend with its optional extras. Categories is
// nil for targets that carry no category data (the spreadsheet ledger).
type BackendResult struct {
	Backend    Backend
	Categories gateway.CategoryReader
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds backend selection and per-type settings. Sheets credentials
// come from the environment (see gateway/sheets).
type Config struct {
	Type BackendType

	// REST specific
	SubmitURL     string
	CategoriesURL string
	Headers       map[string]string
}

// BackendType selects which submit target to build.
type BackendType string

const (
	RESTBackend   BackendType = "rest"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is recognized.
func (bt BackendType) IsValid() bool {
	switch bt {
	case RESTBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
