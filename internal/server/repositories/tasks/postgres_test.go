package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/daterange"
	"github.com/tenkil247/taskmanager/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "task_name", "description", "completed", "grade",
		"priority", "start_at", "end_at", "range_tag", "created_at", "updated_at",
	})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(owner_id,\s*task_name,\s*description,\s*completed,\s*grade,\s*priority,\s*start_at,\s*end_at,\s*range_tag\)`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t-1", now, now)
	mock.ExpectQuery(q).
		WithArgs("u-1", "buy milk", sqlmock.AnyArg(), false, "normal", "normal",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "unset").
		WillReturnRows(rows)

	task := &models.Task{
		OwnerID:  "u-1",
		TaskName: "buy milk",
		Grade:    "normal",
		Priority: "normal",
		Range:    daterange.TagUnset,
	}
	got, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "t-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1").
		WillReturnRows(taskRows().AddRow("t-1", "u-1", "buy milk", nil, false,
			"normal", "normal", nil, nil, "unset", now, now))

	got, err := repo.GetByID(context.Background(), "u-1", "t-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "t-1" || got.Date != nil || got.Range != daterange.TagUnset {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id`).
		WithArgs("t-1", "other-user").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "other-user", "t-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_ReconstructsSpan(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id`).
		WithArgs("t-1", "u-1").
		WillReturnRows(taskRows().AddRow("t-1", "u-1", "meeting", "standup", false,
			"normal", "normal", start, end, "day", now, now))

	got, err := repo.GetByID(context.Background(), "u-1", "t-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Range != daterange.TagDay || got.Date == nil {
		t.Fatalf("span not reconstructed: %+v", got)
	}
	if !got.Date.StartAt.Equal(start) || !got.Date.EndAt.Equal(end) {
		t.Fatalf("span values: %+v", got.Date)
	}
	if got.Description != "standup" {
		t.Fatalf("description: %q", got.Description)
	}
}

func TestList_DefaultSort(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC`).
		WithArgs("u-1").
		WillReturnRows(taskRows())

	got, err := repo.List(context.Background(), "u-1", Filter{}, Sort{}, Page{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %v", got)
	}
}

func TestList_FilterSortAndPage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+completed\s*=\s*\$2\s+ORDER\s+BY\s+grade\s+DESC\s+LIMIT\s+\$3\s+OFFSET\s+\$4`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u-1", true, 10, 20).
		WillReturnRows(taskRows().AddRow("t-1", "u-1", "done thing", nil, true,
			"high", "normal", nil, nil, "unset", now, now))

	completed := true
	got, err := repo.List(context.Background(), "u-1",
		Filter{Completed: &completed}, Sort{Field: "grade", Desc: true}, Page{Limit: 10, Skip: 20})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].Grade != "high" {
		t.Fatalf("unexpected result: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestList_UnknownSortField(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.List(context.Background(), "u-1", Filter{}, Sort{Field: "password"}, Page{})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+tasks\s+SET`).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &models.Task{ID: "t-1", OwnerID: "other"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u-1", "t-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDeleteAllForOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	if err := repo.DeleteAllForOwner(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteAllForOwner error: %v", err)
	}
}
