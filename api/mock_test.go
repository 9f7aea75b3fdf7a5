package api

import (
	"context"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

// mockStore is an in-memory Store used by handler tests. It emulates the
// relational store's behavior including cascade deletes and case-insensitive
// email lookup.
type mockStore struct {
	users  map[int64]domain.User
	boards map[int64]domain.Board
	tasks  map[int64]domain.Task
	nextID int64

	deletedBoards []int64
	deletedTasks  []int64
	lastTaskCh    domain.TaskChanges
	err           error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  map[int64]domain.User{},
		boards: map[int64]domain.Board{},
		tasks:  map[int64]domain.Task{},
		nextID: 1000,
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) addUser(u domain.User) domain.User {
	if u.ID == 0 {
		u.ID = m.id()
	}
	u.IsActive = true
	m.users[u.ID] = u
	return u
}

func (m *mockStore) addBoard(name string, ownerID int64) domain.Board {
	b := domain.Board{ID: m.id(), Name: name, Owner: m.users[ownerID], Tasks: []domain.Task{}}
	m.boards[b.ID] = b
	return b
}

func (m *mockStore) addTask(boardID int64, title string, creatorID int64, assigneeID *int64) domain.Task {
	board := m.boards[boardID]
	t := domain.Task{
		ID:           m.id(),
		Title:        title,
		Status:       domain.DefaultStatus,
		BoardID:      boardID,
		BoardOwnerID: board.Owner.ID,
		CreatedBy:    m.users[creatorID],
	}
	if assigneeID != nil {
		assignee := m.users[*assigneeID]
		t.Assignee = &assignee
	}
	m.tasks[t.ID] = t
	return t
}

func (m *mockStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return domain.User{}, domain.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	return m.addUser(u), nil
}

func (m *mockStore) UserByID(ctx context.Context, id int64) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockStore) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *mockStore) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *mockStore) boardWithTasks(b domain.Board) domain.Board {
	b.Tasks = []domain.Task{}
	for _, t := range m.tasks {
		if t.BoardID == b.ID {
			b.Tasks = append(b.Tasks, t)
		}
	}
	return b
}

func (m *mockStore) ListBoards(ctx context.Context, actorID int64) ([]domain.Board, error) {
	if m.err != nil {
		return nil, m.err
	}
	boards := []domain.Board{}
	for _, b := range m.boards {
		full := m.boardWithTasks(b)
		if domain.CanViewBoard(actorID, full) {
			boards = append(boards, full)
		}
	}
	return boards, nil
}

func (m *mockStore) BoardByID(ctx context.Context, id int64) (domain.Board, error) {
	if m.err != nil {
		return domain.Board{}, m.err
	}
	b, ok := m.boards[id]
	if !ok {
		return domain.Board{}, domain.ErrNotFound
	}
	return m.boardWithTasks(b), nil
}

func (m *mockStore) CreateBoard(ctx context.Context, name, description string, ownerID int64) (domain.Board, error) {
	if m.err != nil {
		return domain.Board{}, m.err
	}
	b := m.addBoard(name, ownerID)
	b.Description = description
	m.boards[b.ID] = b
	return m.boardWithTasks(b), nil
}

func (m *mockStore) UpdateBoard(ctx context.Context, id int64, ch domain.BoardChanges) (domain.Board, error) {
	if m.err != nil {
		return domain.Board{}, m.err
	}
	b, ok := m.boards[id]
	if !ok {
		return domain.Board{}, domain.ErrNotFound
	}
	if ch.Name != nil {
		b.Name = *ch.Name
	}
	if ch.Description != nil {
		b.Description = *ch.Description
	}
	m.boards[id] = b
	return m.boardWithTasks(b), nil
}

func (m *mockStore) DeleteBoard(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.boards[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.boards, id)
	for tid, t := range m.tasks {
		if t.BoardID == id {
			delete(m.tasks, tid)
			m.deletedTasks = append(m.deletedTasks, tid)
		}
	}
	m.deletedBoards = append(m.deletedBoards, id)
	return nil
}

func (m *mockStore) ListTasks(ctx context.Context, actorID int64) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	tasks := []domain.Task{}
	for _, t := range m.tasks {
		if domain.CanViewTask(actorID, t) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *mockStore) TaskByID(ctx context.Context, id int64) (domain.Task, error) {
	if m.err != nil {
		return domain.Task{}, m.err
	}
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockStore) CreateTask(ctx context.Context, boardID int64, title, description string, status domain.Status, assigneeID *int64, createdByID int64) (domain.Task, error) {
	if m.err != nil {
		return domain.Task{}, m.err
	}
	t := m.addTask(boardID, title, createdByID, assigneeID)
	t.Description = description
	t.Status = status
	m.tasks[t.ID] = t
	return t, nil
}

func (m *mockStore) UpdateTask(ctx context.Context, id int64, ch domain.TaskChanges) (domain.Task, error) {
	if m.err != nil {
		return domain.Task{}, m.err
	}
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	m.lastTaskCh = ch
	if ch.Title != nil {
		t.Title = *ch.Title
	}
	if ch.Description != nil {
		t.Description = *ch.Description
	}
	if ch.Status != nil {
		t.Status = *ch.Status
	}
	if ch.BoardID != nil {
		t.BoardID = *ch.BoardID
		t.BoardOwnerID = m.boards[*ch.BoardID].Owner.ID
	}
	if ch.AssigneeID != nil {
		assignee := m.users[*ch.AssigneeID]
		t.Assignee = &assignee
	} else {
		t.Assignee = nil
	}
	m.tasks[id] = t
	return t, nil
}

func (m *mockStore) UpdateTaskStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error) {
	if m.err != nil {
		return domain.Task{}, m.err
	}
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	t.Status = status
	m.tasks[id] = t
	return t, nil
}

func (m *mockStore) DeleteTask(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tasks, id)
	m.deletedTasks = append(m.deletedTasks, id)
	return nil
}

func (m *mockStore) TasksAssignedTo(ctx context.Context, userID int64) ([]domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	tasks := []domain.Task{}
	for _, t := range m.tasks {
		if t.Assignee != nil && t.Assignee.ID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *mockStore) BoardsWithTaskAssignedTo(ctx context.Context, userID int64) ([]domain.Board, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[int64]bool{}
	boards := []domain.Board{}
	for _, t := range m.tasks {
		if t.Assignee != nil && t.Assignee.ID == userID && !seen[t.BoardID] {
			seen[t.BoardID] = true
			boards = append(boards, m.boardWithTasks(m.boards[t.BoardID]))
		}
	}
	return boards, nil
}

type mockAuth struct {
	userID    int64
	authErr   error
	revoked   int
	revokeErr error
}

func (a *mockAuth) UserIDFromAuthHeader(ctx context.Context, header string) (int64, error) {
	if a.authErr != nil {
		return 0, a.authErr
	}
	return a.userID, nil
}

func (a *mockAuth) IssueToken(userID int64) (string, error) {
	return "token-" + strconv.FormatInt(userID, 10), nil
}

func (a *mockAuth) RevokeFromAuthHeader(ctx context.Context, header string) error {
	a.revoked++
	return a.revokeErr
}

type mockLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *mockLimiter) Blocked(ctx context.Context, addr string) (bool, error) {
	return l.blocked, nil
}

func (l *mockLimiter) RecordFailure(ctx context.Context, addr string) error {
	l.failures++
	return nil
}

func (l *mockLimiter) Reset(ctx context.Context, addr string) error {
	l.resets++
	return nil
}

// fixture is the standing cast of the handler tests: a board owner, a task
// creator, an assignee and a bystander, with one board and one assigned task.
type fixture struct {
	owner    domain.User
	assignee domain.User
	creator  domain.User
	stranger domain.User
	board    domain.Board
	task     domain.Task
}

func seedFixture(m *mockStore) fixture {
	f := fixture{
		owner:    m.addUser(domain.User{Username: "owner", Email: "owner@x.com"}),
		assignee: m.addUser(domain.User{Username: "worker", Email: "a@x.com"}),
		creator:  m.addUser(domain.User{Username: "reporter", Email: "creator@x.com"}),
		stranger: m.addUser(domain.User{Username: "passerby", Email: "stranger@x.com"}),
	}
	f.board = m.addBoard("Sprint 1", f.owner.ID)
	assigneeID := f.assignee.ID
	f.task = m.addTask(f.board.ID, "Fix bug", f.creator.ID, &assigneeID)
	return f
}

func newTestContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
