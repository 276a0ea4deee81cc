package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/daterange"
	"github.com/tenkil247/taskmanager/internal/dbx"
	"github.com/tenkil247/taskmanager/internal/server/models"
)

const taskColumns = "id, owner_id, task_name, description, completed, grade, priority, start_at, end_at, range_tag, created_at, updated_at"

// sortColumns whitelists the JSON field names a client may sort by and maps
// them to columns, so nothing user-supplied is spliced into SQL.
var sortColumns = map[string]string{
	"taskName":  "task_name",
	"completed": "completed",
	"grade":     "grade",
	"priority":  "priority",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (owner_id, task_name, description, completed, grade, priority, start_at, end_at, range_tag)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	startAt, endAt := spanColumns(task.Date)
	err := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.TaskName, nullString(task.Description), task.Completed,
		task.Grade, task.Priority, startAt, endAt, string(task.Range)).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID string, taskID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, f Filter, s Sort, p Page) ([]*models.Task, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	args := []any{ownerID}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}

	column := "created_at"
	if s.Field != "" {
		var ok bool
		if column, ok = sortColumns[s.Field]; !ok {
			return nil, common.NewValidationError("cannot sort by %q", s.Field)
		}
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s", column, direction)

	if p.Limit > 0 {
		args = append(args, p.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if p.Skip > 0 {
		args = append(args, p.Skip)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query :=
		`UPDATE tasks SET task_name = $1, description = $2, completed = $3, grade = $4,
		 priority = $5, start_at = $6, end_at = $7, range_tag = $8, updated_at = now()
		 WHERE id = $9 AND owner_id = $10
		 RETURNING updated_at
		 `

	startAt, endAt := spanColumns(task.Date)
	err := r.db.QueryRowContext(ctx, query,
		task.TaskName, nullString(task.Description), task.Completed, task.Grade,
		task.Priority, startAt, endAt, string(task.Range), task.ID, task.OwnerID).
		Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, taskID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var (
		description    sql.NullString
		startAt, endAt sql.NullTime
		rangeTag       string
	)

	err := row.Scan(&task.ID, &task.OwnerID, &task.TaskName, &description, &task.Completed,
		&task.Grade, &task.Priority, &startAt, &endAt, &rangeTag, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Range = daterange.Tag(rangeTag)
	if task.Range != daterange.TagUnset {
		span := &daterange.Span{}
		if startAt.Valid {
			t := startAt.Time
			span.StartAt = &t
		}
		if endAt.Valid {
			t := endAt.Time
			span.EndAt = &t
		}
		task.Date = span
	}

	return task, nil
}

func spanColumns(span *daterange.Span) (startAt, endAt sql.NullTime) {
	if span == nil {
		return
	}
	if span.StartAt != nil {
		startAt = sql.NullTime{Time: *span.StartAt, Valid: true}
	}
	if span.EndAt != nil {
		endAt = sql.NullTime{Time: *span.EndAt, Valid: true}
	}
	return
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
