package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func signup(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req signupRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			return jsonError(c, http.StatusBadRequest, "Please provide username, email and password")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return internalError(c, logger, "signup", err)
		}

		user, err := store.CreateUser(c.Request().Context(), domain.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUsernameTaken):
				return jsonError(c, http.StatusBadRequest, "Username already exists")
			case errors.Is(err, domain.ErrEmailTaken):
				return jsonError(c, http.StatusBadRequest, "Email already exists")
			}
			return internalError(c, logger, "signup", err)
		}

		token, err := auth.IssueToken(user.ID)
		if err != nil {
			return internalError(c, logger, "signup", err)
		}
		return c.JSON(http.StatusCreated, signupResponse{
			Message:  "User created successfully",
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			Token:    token,
		})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// The unknown-user and wrong-password paths must be indistinguishable to the
// caller, so both answer with the same message.
const invalidCredentialsMsg = "Invalid username or password"

func login(store Store, auth Authenticator, limiter LoginGuard, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req loginRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if req.Username == "" || req.Password == "" {
			return jsonError(c, http.StatusBadRequest, "Please provide both username and password")
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
			return jsonError(c, http.StatusBadRequest, "Username and password cannot be empty")
		}

		addr := c.RealIP()
		blocked, err := limiter.Blocked(ctx, addr)
		if err != nil {
			return internalError(c, logger, "login", err)
		}
		if blocked {
			return jsonError(c, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		}

		recordFailure := func() {
			if err := limiter.RecordFailure(ctx, addr); err != nil {
				logger.WithError(err).WithField("addr", addr).Error("failed to record login attempt")
			}
		}

		user, err := store.UserByUsername(ctx, req.Username)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				recordFailure()
				return jsonError(c, http.StatusUnauthorized, invalidCredentialsMsg)
			}
			return internalError(c, logger, "login", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			recordFailure()
			return jsonError(c, http.StatusUnauthorized, invalidCredentialsMsg)
		}
		if !user.IsActive {
			return jsonError(c, http.StatusUnauthorized, "Account is disabled")
		}

		if err := limiter.Reset(ctx, addr); err != nil {
			logger.WithError(err).WithField("addr", addr).Error("failed to reset login attempts")
		}

		token, err := auth.IssueToken(user.ID)
		if err != nil {
			return internalError(c, logger, "login", err)
		}
		return c.JSON(http.StatusOK, loginResponse{
			Token:     token,
			UserID:    user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
}

func logout(auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if _, err := auth.UserIDFromAuthHeader(ctx, header); err != nil {
			return jsonError(c, http.StatusUnauthorized, "Invalid or expired token")
		}
		if err := auth.RevokeFromAuthHeader(ctx, header); err != nil {
			logger.WithError(err).Error("logout failed")
			return jsonError(c, http.StatusInternalServerError, "An error occurred during logout.")
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out."})
	}
}

func currentUser(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		user, err := store.UserByID(c.Request().Context(), actorID)
		if err != nil {
			return storeError(c, logger, "current_user", err, "User not found")
		}
		return c.JSON(http.StatusOK, user)
	}
}

// selfOnly loads the target user of a /users/:id/... route and rejects any
// caller other than that user.
func selfOnly(c echo.Context, store Store, auth Authenticator, logger *log.Logger, deniedMsg string) (domain.User, bool, error) {
	actorID, handled, err := actorFromRequest(c, auth)
	if handled {
		return domain.User{}, true, err
	}
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.User{}, true, jsonError(c, http.StatusBadRequest, "Invalid user ID")
	}
	target, err := store.UserByID(c.Request().Context(), targetID)
	if err != nil {
		return domain.User{}, true, storeError(c, logger, "load_user", err, "User not found")
	}
	if target.ID != actorID {
		return domain.User{}, true, jsonError(c, http.StatusForbidden, deniedMsg)
	}
	return target, false, nil
}

func userAssignments(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		target, handled, err := selfOnly(c, store, auth, logger,
			"You don't have permission to view this user's assignments")
		if handled {
			return err
		}
		tasks, err := store.TasksAssignedTo(c.Request().Context(), target.ID)
		if err != nil {
			return internalError(c, logger, "user_assignments", err)
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func userAssignedBoards(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		target, handled, err := selfOnly(c, store, auth, logger,
			"You don't have permission to view this user's assigned boards")
		if handled {
			return err
		}
		boards, err := store.BoardsWithTaskAssignedTo(c.Request().Context(), target.ID)
		if err != nil {
			return internalError(c, logger, "user_assigned_boards", err)
		}
		return c.JSON(http.StatusOK, boards)
	}
}
