package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	internalerrors "github.com/Schera-ole/perfboard/internal/errors"
	models "github.com/Schera-ole/perfboard/internal/model"
)

type DBStorage struct {
	db *sql.DB
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	dbConnect, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &DBStorage{db: dbConnect}, nil
}

func (storage *DBStorage) Close() error {
	return storage.db.Close()
}

func (storage *DBStorage) GetUsers(ctx context.Context) ([]models.User, error) {
	query := "SELECT alias, name, job_title, staff_level, supervisor, region FROM users ORDER BY alias"
	rows, err := storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", mapPgError(err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Alias, &u.Name, &u.JobTitle, &u.StaffLevel, &u.Supervisor, &u.Region); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over users: %w", err)
	}
	return users, nil
}

func (storage *DBStorage) GetUser(ctx context.Context, alias string) (models.User, error) {
	var u models.User
	query := "SELECT alias, name, job_title, staff_level, supervisor, region FROM users WHERE alias = $1"
	err := storage.db.QueryRowContext(ctx, query, alias).Scan(
		&u.Alias, &u.Name, &u.JobTitle, &u.StaffLevel, &u.Supervisor, &u.Region)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, internalerrors.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("error retrieving user: %w", mapPgError(err))
	}
	return u, nil
}

func (storage *DBStorage) ListTeam(ctx context.Context, supervisor string) ([]models.User, error) {
	query := "SELECT alias, name, job_title, staff_level, supervisor, region FROM users WHERE supervisor = $1 ORDER BY alias"
	rows, err := storage.db.QueryContext(ctx, query, supervisor)
	if err != nil {
		return nil, fmt.Errorf("error retrieving team: %w", mapPgError(err))
	}
	defer rows.Close()

	var team []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Alias, &u.Name, &u.JobTitle, &u.StaffLevel, &u.Supervisor, &u.Region); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		team = append(team, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over team: %w", err)
	}
	return team, nil
}

func (storage *DBStorage) GetUserMetrics(ctx context.Context, alias string) ([]models.Metric, error) {
	query := `SELECT metric_name, display_name, actual_value, annual_target, attainment_percent, metric_type
		FROM metrics WHERE user_alias = $1 ORDER BY metric_name`
	rows, err := storage.db.QueryContext(ctx, query, alias)
	if err != nil {
		return nil, fmt.Errorf("error retrieving metrics: %w", mapPgError(err))
	}
	defer rows.Close()

	var metrics []models.Metric
	for rows.Next() {
		var m models.Metric
		if err := rows.Scan(&m.Name, &m.DisplayName, &m.ActualValue, &m.AnnualTarget, &m.AttainmentPercent, &m.Kind); err != nil {
			return nil, fmt.Errorf("error scanning metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over metrics: %w", err)
	}
	return metrics, nil
}

func (storage *DBStorage) ListRecords(ctx context.Context) ([]models.MetricRecord, error) {
	query := `SELECT user_alias, metric_name, display_name, actual_value, annual_target, attainment_percent, metric_type
		FROM metrics ORDER BY user_alias, metric_name`
	rows, err := storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving records: %w", mapPgError(err))
	}
	defer rows.Close()

	var records []models.MetricRecord
	for rows.Next() {
		var rec models.MetricRecord
		if err := rows.Scan(&rec.UserAlias, &rec.Name, &rec.DisplayName, &rec.ActualValue,
			&rec.AnnualTarget, &rec.AttainmentPercent, &rec.Kind); err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over records: %w", err)
	}
	return records, nil
}

func (storage *DBStorage) UpsertUsers(ctx context.Context, users []models.User) error {
	tx, err := storage.db.Begin()
	if err != nil {
		return fmt.Errorf("can't start transaction: %w", err)
	}
	defer tx.Rollback()

	stmtExist, err := tx.PrepareContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE alias = $1)")
	if err != nil {
		return fmt.Errorf("error checking if user exists: %w", err)
	}
	defer stmtExist.Close()

	for _, u := range users {
		if u.Alias == "" {
			return internalerrors.ErrEmptyAlias
		}
		var exists bool
		if err := stmtExist.QueryRowContext(ctx, u.Alias).Scan(&exists); err != nil {
			return fmt.Errorf("error checking if user exists: %w", err)
		}
		if !exists {
			query := `INSERT INTO users (alias, name, job_title, staff_level, supervisor, region, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
			if _, err := tx.ExecContext(ctx, query, u.Alias, u.Name, u.JobTitle, u.StaffLevel, u.Supervisor, u.Region); err != nil {
				return fmt.Errorf("error saving user: %w", mapPgError(err))
			}
		} else {
			query := `UPDATE users SET name = $1, job_title = $2, staff_level = $3, supervisor = $4, region = $5, updated_at = NOW()
				WHERE alias = $6`
			if _, err := tx.ExecContext(ctx, query, u.Name, u.JobTitle, u.StaffLevel, u.Supervisor, u.Region, u.Alias); err != nil {
				return fmt.Errorf("error saving user: %w", mapPgError(err))
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrTransactionFailed, err)
	}
	return nil
}

func (storage *DBStorage) UpsertMetrics(ctx context.Context, records []models.MetricRecord) error {
	tx, err := storage.db.Begin()
	if err != nil {
		return fmt.Errorf("can't start transaction: %w", err)
	}
	defer tx.Rollback()

	stmtExist, err := tx.PrepareContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM metrics WHERE user_alias = $1 AND metric_name = $2)")
	if err != nil {
		return fmt.Errorf("error checking if metric exists: %w", err)
	}
	defer stmtExist.Close()

	for _, rec := range records {
		if rec.UserAlias == "" {
			return internalerrors.ErrEmptyAlias
		}
		var exists bool
		if err := stmtExist.QueryRowContext(ctx, rec.UserAlias, rec.Name).Scan(&exists); err != nil {
			return fmt.Errorf("error checking if metric exists: %w", err)
		}
		if !exists {
			query := `INSERT INTO metrics (user_alias, metric_name, display_name, actual_value, annual_target, attainment_percent, metric_type, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`
			if _, err := tx.ExecContext(ctx, query, rec.UserAlias, rec.Name, rec.DisplayName,
				rec.ActualValue, rec.AnnualTarget, rec.AttainmentPercent, rec.Kind); err != nil {
				return fmt.Errorf("error saving metric: %w", mapPgError(err))
			}
		} else {
			query := `UPDATE metrics SET display_name = $1, actual_value = $2, annual_target = $3, attainment_percent = $4, metric_type = $5, updated_at = NOW()
				WHERE user_alias = $6 AND metric_name = $7`
			if _, err := tx.ExecContext(ctx, query, rec.DisplayName, rec.ActualValue,
				rec.AnnualTarget, rec.AttainmentPercent, rec.Kind, rec.UserAlias, rec.Name); err != nil {
				return fmt.Errorf("error saving metric: %w", mapPgError(err))
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrTransactionFailed, err)
	}
	return nil
}

func (storage *DBStorage) Ping(ctx context.Context) error {
	if err := storage.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// mapPgError translates PostgreSQL error codes into domain sentinel errors
// so callers can match with errors.Is instead of inspecting codes.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return internalerrors.ErrAlreadyExists
		}
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return internalerrors.ErrStorageUnavailable
		}
	}
	return err
}
