package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

func listTasks(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics := newListRequestMetrics(logger, "/api/tasks")
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
		tasks, err := store.ListTasks(c.Request().Context(), actorID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if err != nil {
			metrics.SetErrorStage("storage")
			status = http.StatusInternalServerError
			return internalError(c, logger, "list_tasks", err)
		}
		metrics.SetItemsReturned(len(tasks))
		return c.JSON(http.StatusOK, tasks)
	}
}

// resolveAssigneeEmail turns an assignee_email value into a user id. A nil or
// blank value clears the assignment. The bool result reports whether a
// validation response was already written.
func resolveAssigneeEmail(c echo.Context, store Store, email *string) (*int64, bool, error) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil, false, nil
	}
	if !strings.Contains(*email, "@") {
		return nil, true, fieldError(c, "assignee_email", "Enter a valid email address.")
	}
	user, err := store.UserByEmail(c.Request().Context(), *email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, true, fieldError(c, "assignee_email", "User with this email does not exist.")
		}
		return nil, false, err
	}
	id := user.ID
	return &id, false, nil
}

func invalidBoardMsg(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

type createTaskRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Status        *string `json:"status"`
	Board         *int64  `json:"board"`
	AssigneeEmail *string `json:"assignee_email"`
}

func createTask(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		var req createTaskRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.Title) == "" {
			return fieldError(c, "title", "This field is required.")
		}
		if req.Board == nil {
			return fieldError(c, "board", "This field is required.")
		}

		taskStatus := domain.DefaultStatus
		if req.Status != nil && *req.Status != "" {
			taskStatus = domain.Status(*req.Status)
			if !taskStatus.Valid() {
				return fieldError(c, "status", fmt.Sprintf("%q is not a valid choice.", *req.Status))
			}
		}

		board, err := store.BoardByID(c.Request().Context(), *req.Board)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fieldError(c, "board", invalidBoardMsg(*req.Board))
			}
			return internalError(c, logger, "create_task", err)
		}
		if !domain.CanCreateTask(actorID, board) {
			return jsonError(c, http.StatusForbidden, "You don't have permission to add tasks to this board")
		}

		assigneeID, handled, err := resolveAssigneeEmail(c, store, req.AssigneeEmail)
		if handled {
			return err
		}
		if err != nil {
			return internalError(c, logger, "create_task", err)
		}

		task, err := store.CreateTask(c.Request().Context(), board.ID, req.Title, req.Description, taskStatus, assigneeID, actorID)
		if err != nil {
			return internalError(c, logger, "create_task", err)
		}
		return c.JSON(http.StatusCreated, task)
	}
}

// loadVisibleTask fetches the task and collapses "missing" and "invisible to
// the actor" into the same 404.
func loadVisibleTask(c echo.Context, store Store, logger *log.Logger, actorID int64) (domain.Task, bool, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.Task{}, true, jsonError(c, http.StatusBadRequest, "Invalid task ID")
	}
	task, err := store.TaskByID(c.Request().Context(), id)
	if err != nil {
		return domain.Task{}, true, storeError(c, logger, "load_task", err, "Task not found")
	}
	if !domain.CanViewTask(actorID, task) {
		return domain.Task{}, true, jsonError(c, http.StatusNotFound, "Task not found")
	}
	return task, false, nil
}

func getTask(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		task, handled, err := loadVisibleTask(c, store, logger, actorID)
		if handled {
			return err
		}
		return c.JSON(http.StatusOK, task)
	}
}

type updateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	Board         *int64  `json:"board"`
	AssigneeEmail *string `json:"assignee_email"`
}

func updateTask(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		task, handled, err := loadVisibleTask(c, store, logger, actorID)
		if handled {
			return err
		}
		if !domain.CanEditTask(actorID, task) {
			return jsonError(c, http.StatusForbidden, "You don't have permission to edit this task")
		}

		var req updateTaskRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
			return fieldError(c, "title", "This field may not be blank.")
		}

		changes := domain.TaskChanges{Title: req.Title, Description: req.Description}

		if req.Status != nil {
			taskStatus := domain.Status(*req.Status)
			if !taskStatus.Valid() {
				return fieldError(c, "status", fmt.Sprintf("%q is not a valid choice.", *req.Status))
			}
			changes.Status = &taskStatus
		}

		if req.Board != nil && *req.Board != task.BoardID {
			dest, err := store.BoardByID(c.Request().Context(), *req.Board)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fieldError(c, "board", invalidBoardMsg(*req.Board))
				}
				return internalError(c, logger, "update_task", err)
			}
			if !domain.CanCreateTask(actorID, dest) {
				return jsonError(c, http.StatusForbidden, "You don't have permission to add tasks to this board")
			}
			changes.BoardID = req.Board
		}

		// An update without a resolvable assignee email clears the
		// assignment; the changes always carry the assignee slot.
		assigneeID, handled, err := resolveAssigneeEmail(c, store, req.AssigneeEmail)
		if handled {
			return err
		}
		if err != nil {
			return internalError(c, logger, "update_task", err)
		}
		changes.AssigneeID = assigneeID

		updated, err := store.UpdateTask(c.Request().Context(), task.ID, changes)
		if err != nil {
			return storeError(c, logger, "update_task", err, "Task not found")
		}
		return c.JSON(http.StatusOK, updated)
	}
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

func updateTaskStatus(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		task, handled, err := loadVisibleTask(c, store, logger, actorID)
		if handled {
			return err
		}
		if !domain.CanEditTask(actorID, task) {
			return jsonError(c, http.StatusForbidden, "Permission denied")
		}

		var req updateTaskStatusRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid request body")
		}
		taskStatus := domain.Status(req.Status)
		if !taskStatus.Valid() {
			return jsonError(c, http.StatusBadRequest, "Invalid status")
		}

		updated, err := store.UpdateTaskStatus(c.Request().Context(), task.ID, taskStatus)
		if err != nil {
			return storeError(c, logger, "update_task_status", err, "Task not found")
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteTask(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, handled, err := actorFromRequest(c, auth)
		if handled {
			return err
		}
		task, handled, err := loadVisibleTask(c, store, logger, actorID)
		if handled {
			return err
		}
		if !domain.CanDeleteTask(actorID, task) {
			return jsonError(c, http.StatusForbidden, "You don't have permission to delete this task")
		}
		if err := store.DeleteTask(c.Request().Context(), task.ID); err != nil {
			return storeError(c, logger, "delete_task", err, "Task not found")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
