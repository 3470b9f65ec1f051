package health

import "context"

// StorePinger checks vector store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider (embedding or chat model).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
