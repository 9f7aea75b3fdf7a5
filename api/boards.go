package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

func listBoards(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics := newListRequestMetrics(logger, "/api/boards")
		status := http.StatusOK
		defer func() { metrics.Log(status) }()

		authStart := time.Now()
		actorID, handled, err := actorFromRequest(c, auth)
		metrics.ObserveAuth(time.Since(authStart))
		if handled {
			metrics.SetErrorStage("auth")
			status = http.StatusUnauthorized
			return err
		}

		fetchStart := time.Now()
		boards, err := store.ListBoards(c.Request().Context(), actorID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if err != nil {
			metrics.SetErrorStage("storage")
			status = http.StatusInternalServerError
			return internalError(c, logger, "list_boards", err)
		}
		metrics.SetItemsReturned(len(boards))
		return c.JSON(http.StatusOK, boards)
	}
}

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func createBoard(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		// Any caller-supplied owner field is dropped here: the decoded struct
		// has no slot for it and the actor always becomes the owner.
		var req createBoardRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return fieldError(c, "name", "This field is required.")
		}
		board, err := store.CreateBoard(c.Request().Context(), req.Name, req.Description, actorID)
		if err != nil {
			return internalError(c, logger, "create_board", err)
		}
		return c.JSON(http.StatusCreated, board)
	}
}

// loadVisibleBoard fetches the board and collapses both "missing" and
// "invisible to the actor" into the same 404 so existence never leaks.
func loadVisibleBoard(c echo.Context, store Store, logger *log.Logger, actorID int64) (domain.Board, bool, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.Board{}, true, jsonError(c, http.StatusBadRequest, "Invalid board ID")
	}
	board, err := store.BoardByID(c.Request().Context(), id)
	if err != nil {
		return domain.Board{}, true, storeError(c, logger, "load_board", err, "Board not found")
	}
	if !domain.CanViewBoard(actorID, board) {
		return domain.Board{}, true, jsonError(c, http.StatusNotFound, "Board not found")
	}
	return board, false, nil
}

func getBoard(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		board, handled, err := loadVisibleBoard(c, store, logger, actorID)
		if handled {
			return err
		}
		return c.JSON(http.StatusOK, board)
	}
}

type updateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func updateBoard(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		board, handled, err := loadVisibleBoard(c, store, logger, actorID)
		if handled {
			return err
		}
		if !domain.CanEditBoard(actorID, board) {
			return jsonError(c, http.StatusForbidden, "You don't have permission to edit this board")
		}

		// The owner field is immutable post-creation; the decoded struct
		// ignores it unconditionally.
		var req updateBoardRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			return fieldError(c, "name", "This field may not be blank.")
		}

		updated, err := store.UpdateBoard(c.Request().Context(), board.ID, domain.BoardChanges{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return storeError(c, logger, "update_board", err, "Board not found")
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteBoard(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		board, handled, err := loadVisibleBoard(c, store, logger, actorID)
		if handled {
			return err
		}
		if !domain.CanDeleteBoard(actorID, board) {
			return jsonError(c, http.StatusForbidden, "You don't have permission to delete this board")
		}
		if err := store.DeleteBoard(c.Request().Context(), board.ID); err != nil {
			return storeError(c, logger, "delete_board", err, "Board not found")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
