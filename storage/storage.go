package storage

import (
	"context"
	"errors"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

// Storage provides access to the relational store backing users, boards and
// tasks. All reads resolve the ownership and assignment edges the
// authorization predicates need, so callers never issue follow-up lookups.
type Storage struct {
	db *gorm.DB
}

// New connects to MySQL with the given DSN and migrates the schema.
func New(dsn string) (*Storage, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&userRecord{}, &boardRecord{}, &taskRecord{}); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// CreateUser inserts a new account. Username and email must be unique; email
// uniqueness is case-insensitive.
func (s *Storage) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&userRecord{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return domain.User{}, err
	}
	if count > 0 {
		return domain.User{}, domain.ErrUsernameTaken
	}
	if err := db.Model(&userRecord{}).Where("LOWER(email) = LOWER(?)", u.Email).Count(&count).Error; err != nil {
		return domain.User{}, err
	}
	if count > 0 {
		return domain.User{}, domain.ErrEmailTaken
	}

	rec := userRecord{
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsActive:     true,
	}
	if err := db.Create(&rec).Error; err != nil {
		// The unique indexes are the last line of defense against concurrent
		// signups racing past the checks above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, err
	}
	return userToDomain(rec), nil
}

// UserByID returns the user with the given id.
func (s *Storage) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return domain.User{}, translateNotFound(err)
	}
	return userToDomain(rec), nil
}

// UserByUsername returns the user with the given username.
func (s *Storage) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "username = ?", username).Error; err != nil {
		return domain.User{}, translateNotFound(err)
	}
	return userToDomain(rec), nil
}

// UserByEmail returns the user with the given email, compared
// case-insensitively.
func (s *Storage) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return domain.User{}, translateNotFound(err)
	}
	return userToDomain(rec), nil
}

func boardPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.created_at DESC") }).
		Preload("Tasks.Assignee").
		Preload("Tasks.CreatedBy")
}

// ListBoards returns the boards visible to the actor: boards they own plus
// boards containing at least one task assigned to them. Newest first.
func (s *Storage) ListBoards(ctx context.Context, actorID int64) ([]domain.Board, error) {
	var recs []boardRecord
	err := boardPreloads(s.db.WithContext(ctx)).
		Distinct("boards.*").
		Joins("LEFT JOIN tasks ON tasks.board_id = boards.id").
		Where("boards.owner_id = ? OR tasks.assignee_id = ?", actorID, actorID).
		Order("boards.created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return boardsToDomain(recs), nil
}

// BoardByID returns a single board with tasks and owner resolved.
func (s *Storage) BoardByID(ctx context.Context, id int64) (domain.Board, error) {
	var rec boardRecord
	if err := boardPreloads(s.db.WithContext(ctx)).First(&rec, "boards.id = ?", id).Error; err != nil {
		return domain.Board{}, translateNotFound(err)
	}
	return boardToDomain(rec), nil
}

// CreateBoard inserts a board owned by ownerID.
func (s *Storage) CreateBoard(ctx context.Context, name, description string, ownerID int64) (domain.Board, error) {
	rec := boardRecord{Name: name, Description: description, OwnerID: ownerID}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Board{}, err
	}
	return s.BoardByID(ctx, rec.ID)
}

// UpdateBoard applies a partial update and returns the refreshed board.
func (s *Storage) UpdateBoard(ctx context.Context, id int64, ch domain.BoardChanges) (domain.Board, error) {
	updates := boardUpdates(ch)
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&boardRecord{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return domain.Board{}, res.Error
		}
		if res.RowsAffected == 0 {
			return domain.Board{}, domain.ErrNotFound
		}
	}
	return s.BoardByID(ctx, id)
}

// DeleteBoard removes the board and cascades to all of its tasks.
func (s *Storage) DeleteBoard(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&taskRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&boardRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func taskPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("Board").Preload("Assignee").Preload("CreatedBy")
}

// ListTasks returns the tasks visible to the actor: tasks on boards they own,
// tasks assigned to them and tasks they created. Newest first.
func (s *Storage) ListTasks(ctx context.Context, actorID int64) ([]domain.Task, error) {
	var recs []taskRecord
	err := taskPreloads(s.db.WithContext(ctx)).
		Joins("JOIN boards ON boards.id = tasks.board_id").
		Where("boards.owner_id = ? OR tasks.assignee_id = ? OR tasks.created_by_id = ?", actorID, actorID, actorID).
		Order("tasks.created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return tasksToDomain(recs), nil
}

// TaskByID returns a single task with its permission edges resolved.
func (s *Storage) TaskByID(ctx context.Context, id int64) (domain.Task, error) {
	var rec taskRecord
	if err := taskPreloads(s.db.WithContext(ctx)).First(&rec, "tasks.id = ?", id).Error; err != nil {
		return domain.Task{}, translateNotFound(err)
	}
	return taskToDomain(rec, rec.Board.OwnerID), nil
}

// CreateTask inserts a task on the given board.
func (s *Storage) CreateTask(ctx context.Context, boardID int64, title, description string, status domain.Status, assigneeID *int64, createdByID int64) (domain.Task, error) {
	rec := taskRecord{
		BoardID:     boardID,
		Title:       title,
		Description: description,
		Status:      string(status),
		AssigneeID:  assigneeID,
		CreatedByID: createdByID,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Task{}, err
	}
	return s.TaskByID(ctx, rec.ID)
}

// UpdateTask applies a partial update and returns the refreshed task.
func (s *Storage) UpdateTask(ctx context.Context, id int64, ch domain.TaskChanges) (domain.Task, error) {
	res := s.db.WithContext(ctx).Model(&taskRecord{}).Where("id = ?", id).Updates(taskUpdates(ch))
	if res.Error != nil {
		return domain.Task{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}
	return s.TaskByID(ctx, id)
}

// UpdateTaskStatus persists only the status column and the update timestamp.
func (s *Storage) UpdateTaskStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error) {
	res := s.db.WithContext(ctx).Model(&taskRecord{}).Where("id = ?", id).
		Updates(map[string]any{"status": string(status)})
	if res.Error != nil {
		return domain.Task{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}
	return s.TaskByID(ctx, id)
}

// DeleteTask removes a task.
func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TasksAssignedTo returns all tasks assigned to the user, newest first.
func (s *Storage) TasksAssignedTo(ctx context.Context, userID int64) ([]domain.Task, error) {
	var recs []taskRecord
	err := taskPreloads(s.db.WithContext(ctx)).
		Where("tasks.assignee_id = ?", userID).
		Order("tasks.created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return tasksToDomain(recs), nil
}

// BoardsWithTaskAssignedTo returns the distinct boards containing at least one
// task assigned to the user, newest first.
func (s *Storage) BoardsWithTaskAssignedTo(ctx context.Context, userID int64) ([]domain.Board, error) {
	var recs []boardRecord
	err := boardPreloads(s.db.WithContext(ctx)).
		Distinct("boards.*").
		Joins("JOIN tasks ON tasks.board_id = boards.id").
		Where("tasks.assignee_id = ?", userID).
		Order("boards.created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return boardsToDomain(recs), nil
}

func boardsToDomain(recs []boardRecord) []domain.Board {
	boards := make([]domain.Board, 0, len(recs))
	for _, rec := range recs {
		boards = append(boards, boardToDomain(rec))
	}
	return boards
}

func tasksToDomain(recs []taskRecord) []domain.Task {
	tasks := make([]domain.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, taskToDomain(rec, rec.Board.OwnerID))
	}
	return tasks
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
