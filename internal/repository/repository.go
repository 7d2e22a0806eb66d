// Package repository provides storage backends for dashboard users and
// metric records.
package repository

import (
	"context"

	models "github.com/Schera-ole/perfboard/internal/model"
)

// Repository is the storage contract used by the dashboard service.
type Repository interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, alias string) (models.User, error)
	ListTeam(ctx context.Context, supervisor string) ([]models.User, error)
	GetUserMetrics(ctx context.Context, alias string) ([]models.Metric, error)
	ListRecords(ctx context.Context) ([]models.MetricRecord, error)
	UpsertUsers(ctx context.Context, users []models.User) error
	UpsertMetrics(ctx context.Context, records []models.MetricRecord) error
	Ping(ctx context.Context) error
	Close() error
}
