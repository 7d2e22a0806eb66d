package repository

import (
	"context"
	"sort"
	"sync"

	internalerrors "github.com/Schera-ole/perfboard/internal/errors"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// MemStorage implements the Repository interface using in-memory storage.
type MemStorage struct {
	// mu provides thread-safe access to the storage maps
	mu sync.RWMutex

	// users stores users keyed by alias
	users map[string]models.User

	// records stores metric records keyed by user alias, then metric name
	records map[string]map[string]models.MetricRecord
}

// NewMemStorage creates a new in-memory storage instance.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:   make(map[string]models.User),
		records: make(map[string]map[string]models.MetricRecord),
	}
}

// GetUsers returns all stored users ordered by alias.
func (ms *MemStorage) GetUsers(ctx context.Context) ([]models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	users := make([]models.User, 0, len(ms.users))
	for _, u := range ms.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Alias < users[j].Alias })
	return users, nil
}

// GetUser returns a single user by alias.
func (ms *MemStorage) GetUser(ctx context.Context, alias string) (models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	user, exists := ms.users[alias]
	if !exists {
		return models.User{}, internalerrors.ErrUserNotFound
	}
	return user, nil
}

// ListTeam returns the users whose supervisor matches the given alias,
// ordered by alias.
func (ms *MemStorage) ListTeam(ctx context.Context, supervisor string) ([]models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var team []models.User
	for _, u := range ms.users {
		if u.Supervisor == supervisor {
			team = append(team, u)
		}
	}
	sort.Slice(team, func(i, j int) bool { return team[i].Alias < team[j].Alias })
	return team, nil
}

// GetUserMetrics returns the metrics of a user ordered by metric name.
//
// A user without records yields an empty slice, not an error; callers decide
// whether to fall back to sample data.
func (ms *MemStorage) GetUserMetrics(ctx context.Context, alias string) ([]models.Metric, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	byName, exists := ms.records[alias]
	if !exists {
		return nil, nil
	}
	metrics := make([]models.Metric, 0, len(byName))
	for _, rec := range byName {
		metrics = append(metrics, rec.Metric)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Name < metrics[j].Name })
	return metrics, nil
}

// ListRecords returns every stored metric record ordered by user alias and
// metric name. Used for snapshots.
func (ms *MemStorage) ListRecords(ctx context.Context) ([]models.MetricRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var records []models.MetricRecord
	for _, byName := range ms.records {
		for _, rec := range byName {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].UserAlias != records[j].UserAlias {
			return records[i].UserAlias < records[j].UserAlias
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// UpsertUsers stores the given users, replacing existing entries with the
// same alias.
func (ms *MemStorage) UpsertUsers(ctx context.Context, users []models.User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, u := range users {
		if u.Alias == "" {
			return internalerrors.ErrEmptyAlias
		}
		ms.users[u.Alias] = u
	}
	return nil
}

// UpsertMetrics stores the given metric records, replacing existing entries
// with the same user alias and metric name.
func (ms *MemStorage) UpsertMetrics(ctx context.Context, records []models.MetricRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, rec := range records {
		if rec.UserAlias == "" {
			return internalerrors.ErrEmptyAlias
		}
		byName, exists := ms.records[rec.UserAlias]
		if !exists {
			byName = make(map[string]models.MetricRecord)
			ms.records[rec.UserAlias] = byName
		}
		byName[rec.Name] = rec
	}
	return nil
}

// Ping checks the health of the memory storage.
//
// For MemStorage this always returns nil since there are no external
// dependencies.
func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}

// Close releases any resources held by the memory storage.
func (ms *MemStorage) Close() error {
	return nil
}
