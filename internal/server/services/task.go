package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/daterange"
	"github.com/tenkil247/taskmanager/internal/dbx"
	"github.com/tenkil247/taskmanager/internal/server/models"
	"github.com/tenkil247/taskmanager/internal/server/patch"
	"github.com/tenkil247/taskmanager/internal/server/repositories/repomanager"
	"github.com/tenkil247/taskmanager/internal/server/repositories/tasks"
)

// TaskService provides task operations. Every method takes the owner id and
// only ever touches that owner's rows; another user's task id behaves the
// same as a nonexistent one.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create makes a new task for the owner. taskName is the only required
// field; grade and priority fall back to their defaults and the date span
// is classified at write time.
func (s *TaskService) Create(ctx context.Context, ownerID string, p *patch.Task) (*models.Task, error) {
	if p.TaskName == nil || strings.TrimSpace(*p.TaskName) == "" {
		return nil, common.NewValidationError("taskName is required")
	}

	task := &models.Task{
		TaskName: strings.TrimSpace(*p.TaskName),
		Grade:    models.DefaultGrade,
		Priority: models.DefaultPriority,
		OwnerID:  ownerID,
	}
	if p.Description != nil {
		task.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
	if p.Grade != nil {
		task.Grade = normalizeLabel(*p.Grade)
	}
	if p.Priority != nil {
		task.Priority = normalizeLabel(*p.Priority)
	}
	if p.DateSet {
		task.Date = p.Date
	}

	tag, err := daterange.Classify(task.Date)
	if err != nil {
		return nil, common.NewValidationError("%s", err.Error())
	}
	task.Range = tag

	return s.repomanager.Tasks(s.db).Create(ctx, task)
}

// GetOne fetches a single task owned by ownerID.
func (s *TaskService) GetOne(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).GetByID(ctx, ownerID, taskID)
}

// List returns the owner's tasks with optional filtering, sorting, and
// pagination applied by the repository.
func (s *TaskService) List(ctx context.Context, ownerID string, f tasks.Filter, sort tasks.Sort, page tasks.Page) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).List(ctx, ownerID, f, sort, page)
}

// UpdateOne applies a whitelisted patch to a task. Changing the date span
// reclassifies it; clearing it (explicit null) resets the tag to unset.
func (s *TaskService) UpdateOne(ctx context.Context, ownerID, taskID string, p *patch.Task) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	task, err := repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := applyTaskPatch(task, p); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateMany patches a batch of the owner's tasks atomically. The whole
// batch is checked before anything changes: if any id does not resolve to a
// task of this owner, no task is modified.
func (s *TaskService) UpdateMany(ctx context.Context, ownerID string, items []patch.TaskItem) ([]*models.Task, error) {
	var updated []*models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		loaded := make([]*models.Task, 0, len(items))
		for _, item := range items {
			task, err := repo.GetByID(ctx, ownerID, item.ID)
			if err != nil {
				return fmt.Errorf("task %s: %w", item.ID, err)
			}
			loaded = append(loaded, task)
		}

		for i, item := range items {
			if err := applyTaskPatch(loaded[i], &item.Task); err != nil {
				return err
			}
			if err := repo.Update(ctx, loaded[i]); err != nil {
				return err
			}
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOne removes a single task owned by ownerID.
func (s *TaskService) DeleteOne(ctx context.Context, ownerID, taskID string) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, ownerID, taskID)
}

// DeleteMany removes a batch of the owner's tasks atomically. Like
// UpdateMany, existence of every id is verified before the first delete.
func (s *TaskService) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		for _, id := range ids {
			if _, err := repo.GetByID(ctx, ownerID, id); err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
		}

		for _, id := range ids {
			if err := repo.Delete(ctx, ownerID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAllForOwner removes every task the owner has.
func (s *TaskService) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	return s.repomanager.Tasks(s.db).DeleteAllForOwner(ctx, ownerID)
}

func applyTaskPatch(task *models.Task, p *patch.Task) error {
	if p.TaskName != nil {
		name := strings.TrimSpace(*p.TaskName)
		if name == "" {
			return common.NewValidationError("taskName cannot be empty")
		}
		task.TaskName = name
	}
	if p.Description != nil {
		task.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
	if p.Grade != nil {
		task.Grade = normalizeLabel(*p.Grade)
	}
	if p.Priority != nil {
		task.Priority = normalizeLabel(*p.Priority)
	}
	if p.DateSet {
		task.Date = p.Date
	}

	tag, err := daterange.Classify(task.Date)
	if err != nil {
		return common.NewValidationError("%s", err.Error())
	}
	task.Range = tag
	return nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
