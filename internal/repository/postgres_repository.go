package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tempizhere/pageanalyzer/internal/models"
	"go.uber.org/zap"
)

const (
	// Повторная вставка того же имени не создаёт строку, а возвращает существующую.
	// xmax = 0 только у строки, вставленной текущей транзакцией.
	upsertURLQuery = `INSERT INTO urls (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = urls.name
RETURNING id, name, created_at, (xmax = 0) AS inserted`

	findURLQuery = `SELECT id, name, created_at FROM urls WHERE id = $1`

	listURLsQuery = `SELECT u.id, u.name, u.created_at, c.created_at, c.status_code
FROM urls u
LEFT JOIN LATERAL (
    SELECT created_at, status_code FROM url_checks
    WHERE url_id = u.id
    ORDER BY id DESC
    LIMIT 1
) c ON TRUE
ORDER BY u.id DESC`

	insertCheckQuery = `INSERT INTO url_checks (url_id, status_code, h1, title, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	listChecksQuery = `SELECT id, url_id, status_code, h1, title, description, created_at
FROM url_checks WHERE url_id = $1 ORDER BY id DESC`

	statsQuery = `SELECT (SELECT COUNT(*) FROM urls), (SELECT COUNT(*) FROM url_checks)`
)

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) (*PostgresRepository, error) {
	if db == nil {
		return nil, errors.New("database is not configured")
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}, nil
}

// CreateURL сохраняет адрес одним атомарным запросом
func (r *PostgresRepository) CreateURL(ctx context.Context, name string) (models.URL, bool, error) {
	var (
		u        models.URL
		inserted bool
	)
	err := r.db.QueryRowContext(ctx, upsertURLQuery, name).Scan(&u.ID, &u.Name, &u.CreatedAt, &inserted)
	if err != nil {
		r.logger.Error("Failed to save URL to database", zap.String("name", name), zap.Error(err))
		return models.URL{}, false, fmt.Errorf("save url: %w", err)
	}
	return u, inserted, nil
}

// FindURL возвращает адрес по ID
func (r *PostgresRepository) FindURL(ctx context.Context, id int64) (models.URL, error) {
	var u models.URL
	err := r.db.QueryRowContext(ctx, findURLQuery, id).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.URL{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get URL from database", zap.Int64("id", id), zap.Error(err))
		return models.URL{}, fmt.Errorf("find url: %w", err)
	}
	return u, nil
}

// ListURLs возвращает адреса с датой и кодом последней проверки
func (r *PostgresRepository) ListURLs(ctx context.Context) ([]models.URLListItem, error) {
	rows, err := r.db.QueryContext(ctx, listURLsQuery)
	if err != nil {
		r.logger.Error("Failed to list URLs", zap.Error(err))
		return nil, fmt.Errorf("list urls: %w", err)
	}
	defer rows.Close()

	items := make([]models.URLListItem, 0)
	for rows.Next() {
		var (
			item       models.URLListItem
			lastAt     sql.NullTime
			lastStatus sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt, &lastAt, &lastStatus); err != nil {
			r.logger.Error("Failed to scan URL row", zap.Error(err))
			return nil, fmt.Errorf("scan url: %w", err)
		}
		if lastAt.Valid {
			t := lastAt.Time
			item.LastCheckAt = &t
		}
		if lastStatus.Valid {
			code := int(lastStatus.Int64)
			item.LastStatusCode = &code
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating URL rows", zap.Error(err))
		return nil, fmt.Errorf("iterate urls: %w", err)
	}
	return items, nil
}

// CreateCheck добавляет строку в url_checks
func (r *PostgresRepository) CreateCheck(ctx context.Context, check models.URLCheck) (models.URLCheck, error) {
	err := r.db.QueryRowContext(ctx, insertCheckQuery,
		check.URLID,
		check.StatusCode,
		nullString(check.H1),
		nullString(check.Title),
		nullString(check.Description),
	).Scan(&check.ID, &check.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save check to database",
			zap.Int64("url_id", check.URLID),
			zap.Int("status_code", check.StatusCode),
			zap.Error(err))
		return models.URLCheck{}, fmt.Errorf("save check: %w", err)
	}
	return check, nil
}

// ListChecks возвращает историю проверок адреса
func (r *PostgresRepository) ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	rows, err := r.db.QueryContext(ctx, listChecksQuery, urlID)
	if err != nil {
		r.logger.Error("Failed to list checks", zap.Int64("url_id", urlID), zap.Error(err))
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	checks := make([]models.URLCheck, 0)
	for rows.Next() {
		var (
			c                  models.URLCheck
			h1, title, descrip sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.URLID, &c.StatusCode, &h1, &title, &descrip, &c.CreatedAt); err != nil {
			r.logger.Error("Failed to scan check row", zap.Error(err))
			return nil, fmt.Errorf("scan check: %w", err)
		}
		c.H1 = stringPtr(h1)
		c.Title = stringPtr(title)
		c.Description = stringPtr(descrip)
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating check rows", zap.Error(err))
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return checks, nil
}

// Stats считает адреса и проверки
func (r *PostgresRepository) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	if err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.URLs, &s.Checks); err != nil {
		r.logger.Error("Failed to get stats", zap.Error(err))
		return models.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
