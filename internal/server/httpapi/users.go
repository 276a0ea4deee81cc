package httpapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/logging"
	"github.com/tenkil247/taskmanager/internal/server/avatars"
	"github.com/tenkil247/taskmanager/internal/server/patch"
)

type handlers struct {
	users  UserService
	tasks  TaskService
	logger logging.Logger
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      *int   `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}

	user, token, err := h.users.Register(c.Request().Context(), req.Email, req.Password, req.Name, req.Age)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}

	user, token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

func (h *handlers) getProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionFrom(c).User)
}

func (h *handlers) updateProfile(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, common.NewValidationError("invalid request body"))
	}
	p, err := patch.ParseUser(body)
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	user, err := h.users.UpdateProfile(c.Request().Context(), session.User.ID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *handlers) deleteAccount(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.users.DeleteAccount(c.Request().Context(), session.User.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session.User)
}

func (h *handlers) logout(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.users.Logout(c.Request().Context(), session.User.ID, session.Token); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) logoutAll(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.users.LogoutAll(c.Request().Context(), session.User.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) uploadAvatar(c echo.Context) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return writeError(c, common.NewValidationError("please upload an image"))
	}
	if fileHeader.Size > avatars.MaxUploadSize {
		return writeError(c, common.NewValidationError("file too large (max %d bytes)", avatars.MaxUploadSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, avatars.MaxUploadSize+1))
	if err != nil {
		return writeError(c, err)
	}

	session := sessionFrom(c)
	if err := h.users.UploadAvatar(c.Request().Context(), session.User.ID, fileHeader.Filename, data); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) getAvatar(c echo.Context) error {
	session := sessionFrom(c)
	data, err := h.users.GetAvatar(c.Request().Context(), session.User.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

func (h *handlers) deleteAvatar(c echo.Context) error {
	session := sessionFrom(c)
	if err := h.users.DeleteAvatar(c.Request().Context(), session.User.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
