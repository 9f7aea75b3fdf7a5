package api

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const requestBodyMaxSize = 64 * 1024 // 64 KiB

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, auth Authenticator, limiter LoginGuard, logger *log.Logger) {
	g := e.Group("/api")

	g.POST("/signup", signup(store, auth, logger))
	g.POST("/login", login(store, auth, limiter, logger))
	g.POST("/logout", logout(auth, logger))
	g.GET("/users/me", currentUser(store, auth, logger))
	g.GET("/users/:id/assignments", userAssignments(store, auth, logger))
	g.GET("/users/:id/assigned-boards", userAssignedBoards(store, auth, logger))

	g.GET("/boards", listBoards(store, auth, logger))
	g.POST("/boards", createBoard(store, auth, logger))
	g.GET("/boards/:id", getBoard(store, auth, logger))
	g.PUT("/boards/:id", updateBoard(store, auth, logger))
	g.PATCH("/boards/:id", updateBoard(store, auth, logger))
	g.DELETE("/boards/:id", deleteBoard(store, auth, logger))

	g.GET("/tasks", listTasks(store, auth, logger))
	g.POST("/tasks", createTask(store, auth, logger))
	g.GET("/tasks/:id", getTask(store, auth, logger))
	g.PUT("/tasks/:id", updateTask(store, auth, logger))
	g.PATCH("/tasks/:id", updateTask(store, auth, logger))
	g.PATCH("/tasks/:id/status", updateTaskStatus(store, auth, logger))
	g.DELETE("/tasks/:id", deleteTask(store, auth, logger))

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// decodeJSON reads a bounded request body. An empty body decodes to the zero
// value so PATCH without a payload means "no changes".
func decodeJSON(c echo.Context, v any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, requestBodyMaxSize))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return sonic.Unmarshal(body, v)
}

// actorFromRequest authenticates the request. On failure it writes the 401
// response and reports handled=true.
func actorFromRequest(c echo.Context, auth Authenticator) (actorID int64, handled bool, err error) {
	actorID, authErr := auth.UserIDFromAuthHeader(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if authErr != nil {
		return 0, true, jsonError(c, http.StatusUnauthorized, "Invalid or expired token")
	}
	return actorID, false, nil
}
