package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase opens a pgx connection pool against the configured PostgreSQL
// server and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// FetchTasksForNormalization retrieves a list of stored locations that still
// need normalizing. It returns rows that have a NULL latitude, fewer than 5
// normalization attempts, and non-empty raw text. The results are ordered by
// creation date and limited to the specified count.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of tasks to retrieve.
//
// Returns:
// - A slice of models.Task containing the tasks that match the criteria.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchTasksForNormalization(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT location_id, raw_text
		FROM public.locations
		WHERE
			latitude IS NULL
			AND normalization_attempts < 5
			AND raw_text IS NOT NULL AND raw_text <> ''
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations without coordinates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		if errScan := rows.Scan(&task.ID, &task.RawText); errScan != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", errScan)
		}
		r.log.DebugContext(ctx, "A new location without coordinates has been received.",
			"ID", task.ID, "RawText", task.RawText)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// UpdateTaskLocation writes the normalized coordinate back to the location
// identified by taskID: decimal degrees, the EWKT point, and the UTM
// rendering (NULL when the point lies outside the UTM domain). The
// normalization_error field is cleared. It returns an error if the update
// fails.
func (r *Repository) UpdateTaskLocation(ctx context.Context, taskID int, loc models.NormalizedLocation) error {
	query := `
		UPDATE locations
		SET
			latitude = $1,
			longitude = $2,
			position_ewkt = $3,
			utm = NULLIF($4, ''),
			normalization_error = NULL
		WHERE
			location_id = $5;
	`

	_, err := r.db.Exec(ctx, query, loc.Latitude, loc.Longitude, loc.EWKT, loc.UTM, taskID)
	if err != nil {
		return fmt.Errorf("failed to update location coordinates: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the normalization attempt count for a
// specific location identified by taskID and updates the associated error
// message. If the update operation fails, it returns an error with
// additional context.
func (r *Repository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE locations
		SET
			normalization_attempts = normalization_attempts + 1,
			normalization_error = $1
		WHERE location_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to update normalization error and number of attempts: %w", err)
	}

	return nil
}
