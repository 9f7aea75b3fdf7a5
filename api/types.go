package api

import (
	"context"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

// Store abstracts persistence for handlers.
type Store interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)

	ListBoards(ctx context.Context, actorID int64) ([]domain.Board, error)
	BoardByID(ctx context.Context, id int64) (domain.Board, error)
	CreateBoard(ctx context.Context, name, description string, ownerID int64) (domain.Board, error)
	UpdateBoard(ctx context.Context, id int64, ch domain.BoardChanges) (domain.Board, error)
	DeleteBoard(ctx context.Context, id int64) error

	ListTasks(ctx context.Context, actorID int64) ([]domain.Task, error)
	TaskByID(ctx context.Context, id int64) (domain.Task, error)
	CreateTask(ctx context.Context, boardID int64, title, description string, status domain.Status, assigneeID *int64, createdByID int64) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, ch domain.TaskChanges) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	TasksAssignedTo(ctx context.Context, userID int64) ([]domain.Task, error)
	BoardsWithTaskAssignedTo(ctx context.Context, userID int64) ([]domain.Board, error)
}

// Authenticator issues and validates bearer tokens.
type Authenticator interface {
	// UserIDFromAuthHeader extracts the acting user from the Authorization
	// header, rejecting missing, malformed, expired and revoked tokens.
	UserIDFromAuthHeader(ctx context.Context, header string) (int64, error)
	// IssueToken mints a bearer token for the user.
	IssueToken(userID int64) (string, error)
	// RevokeFromAuthHeader invalidates the presented token for the rest of
	// its lifetime.
	RevokeFromAuthHeader(ctx context.Context, header string) error
}

// LoginGuard tracks failed login attempts per client address.
type LoginGuard interface {
	// Blocked reports whether the address has exhausted its attempts.
	Blocked(ctx context.Context, addr string) (bool, error)
	// RecordFailure counts one failed attempt against the address.
	RecordFailure(ctx context.Context, addr string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, addr string) error
}
