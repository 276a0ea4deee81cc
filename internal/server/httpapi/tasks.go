package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/server/models"
	"github.com/tenkil247/taskmanager/internal/server/patch"
	"github.com/tenkil247/taskmanager/internal/server/repositories/tasks"
)

func (h *handlers) createTask(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}
	p, err := patch.ParseTask(body)
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	task, err := h.tasks.Create(c.Request().Context(), session.User.ID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *handlers) getTask(c echo.Context) error {
	session := sessionFrom(c)
	task, err := h.tasks.GetOne(c.Request().Context(), session.User.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) listTasks(c echo.Context) error {
	filter, sort, page, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	out, err := h.tasks.List(c.Request().Context(), session.User.ID, filter, sort, page)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []*models.Task{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *handlers) updateTask(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}
	p, err := patch.ParseTask(body)
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	task, err := h.tasks.UpdateOne(c.Request().Context(), session.User.ID, c.Param("id"), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) updateManyTasks(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}
	items, err := patch.ParseTaskBatch(body)
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	updated, err := h.tasks.UpdateMany(c.Request().Context(), session.User.ID, items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteTask(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.tasks.DeleteOne(c.Request().Context(), session.User.ID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

type deleteManyRequest struct {
	IDs []string `json:"ids"`
}

func (h *handlers) deleteManyTasks(c echo.Context) error {
	var req deleteManyRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}
	if len(req.IDs) == 0 {
		return writeError(c, common.NewValidationError("ids is required"))
	}

	session := sessionFrom(c)
	if err := h.tasks.DeleteMany(c.Request().Context(), session.User.ID, req.IDs); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) deleteAllTasks(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.tasks.DeleteAllForOwner(c.Request().Context(), session.User.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// parseListQuery reads completed, limit, skip, and sortBy=field:dir.
func parseListQuery(c echo.Context) (tasks.Filter, tasks.Sort, tasks.Page, error) {
	var (
		filter tasks.Filter
		sort   tasks.Sort
		page   tasks.Page
	)

	if v := c.QueryParam("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, sort, page, common.NewValidationError("completed must be true or false")
		}
		filter.Completed = &b
	}

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, sort, page, common.NewValidationError("limit must be a non-negative integer")
		}
		page.Limit = n
	}
	if v := c.QueryParam("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, sort, page, common.NewValidationError("skip must be a non-negative integer")
		}
		page.Skip = n
	}

	if v := c.QueryParam("sortBy"); v != "" {
		field, dir, hasDir := strings.Cut(v, ":")
		sort.Field = field
		if hasDir {
			switch dir {
			case "desc":
				sort.Desc = true
			case "asc":
			default:
				return filter, sort, page, common.NewValidationError("sort direction must be asc or desc")
			}
		}
	}

	return filter, sort, page, nil
}
