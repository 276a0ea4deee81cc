// Package httpapi exposes the service layer over REST. Routing is done with
// echo; handlers translate between HTTP and the services and map domain
// errors to status codes at this boundary only.
package httpapi

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tenkil247/taskmanager/internal/logging"
	"github.com/tenkil247/taskmanager/internal/server/config"
	"github.com/tenkil247/taskmanager/internal/server/models"
	"github.com/tenkil247/taskmanager/internal/server/patch"
	"github.com/tenkil247/taskmanager/internal/server/repositories/tasks"
)

// UserService is the account surface the handlers need.
type UserService interface {
	Register(ctx context.Context, email, password, name string, age *int) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, p *patch.User) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	UploadAvatar(ctx context.Context, userID, filename string, data []byte) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
	DeleteAvatar(ctx context.Context, userID string) error
}

// TaskService is the task surface the handlers need.
type TaskService interface {
	Create(ctx context.Context, ownerID string, p *patch.Task) (*models.Task, error)
	GetOne(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	List(ctx context.Context, ownerID string, f tasks.Filter, s tasks.Sort, page tasks.Page) ([]*models.Task, error)
	UpdateOne(ctx context.Context, ownerID, taskID string, p *patch.Task) (*models.Task, error)
	UpdateMany(ctx context.Context, ownerID string, items []patch.TaskItem) ([]*models.Task, error)
	DeleteOne(ctx context.Context, ownerID, taskID string) error
	DeleteMany(ctx context.Context, ownerID string, ids []string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
}

// Server wraps the echo instance with its listen address.
type Server struct {
	echo *echo.Echo
	addr string
}

// NewServer wires routes, middleware, and handlers.
func NewServer(cfg *config.Config, logger logging.Logger, users UserService, taskSvc TaskService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(logger))

	h := &handlers{users: users, tasks: taskSvc, logger: logger.With("module", "httpapi")}
	gate := authGate(users)

	e.POST("/users", h.register)
	e.POST("/users/login", h.login)

	u := e.Group("/users", gate)
	u.GET("/me", h.getProfile)
	u.PATCH("/me", h.updateProfile)
	u.DELETE("/me", h.deleteAccount)
	u.POST("/logout", h.logout)
	u.POST("/logoutAll", h.logoutAll)
	u.POST("/me/avatar", h.uploadAvatar)
	u.GET("/me/avatar", h.getAvatar)
	u.DELETE("/me/avatar", h.deleteAvatar)

	tg := e.Group("/tasks", gate)
	tg.POST("", h.createTask)
	tg.GET("", h.listTasks)
	// Literal routes go before the parameterized one.
	tg.PATCH("/many", h.updateManyTasks)
	tg.DELETE("/many", h.deleteManyTasks)
	tg.DELETE("/all", h.deleteAllTasks)
	tg.GET("/:id", h.getTask)
	tg.PATCH("/:id", h.updateTask)
	tg.DELETE("/:id", h.deleteTask)

	return &Server{echo: e, addr: cfg.EndpointAddr}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	l := logger.With("module", "http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			l.Info(c.Request().Context(), "request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
			)
			return err
		}
	}
}
