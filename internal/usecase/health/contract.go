package health

import "context"

// CatalogChecker checks that the catalog snapshot can be obtained.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
