package storage

import (
	"time"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

type userRecord struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"column:email;type:varchar(254);uniqueIndex;not null"`
	FirstName    string    `gorm:"column:first_name;type:varchar(150)"`
	LastName     string    `gorm:"column:last_name;type:varchar(150)"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (userRecord) TableName() string { return "users" }

type boardRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Owner userRecord   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	Tasks []taskRecord `gorm:"foreignKey:BoardID;references:ID"`
}

func (boardRecord) TableName() string { return "boards" }

type taskRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoardID     int64     `gorm:"column:board_id;not null;index"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'To-Do'"`
	AssigneeID  *int64    `gorm:"column:assignee_id;index"`
	CreatedByID int64     `gorm:"column:created_by_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Board     boardRecord `gorm:"foreignKey:BoardID;references:ID;constraint:OnDelete:CASCADE"`
	Assignee  *userRecord `gorm:"foreignKey:AssigneeID;references:ID;constraint:OnDelete:SET NULL"`
	CreatedBy userRecord  `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
}

func (taskRecord) TableName() string { return "tasks" }

func userToDomain(r userRecord) domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
	}
}

// taskToDomain resolves the task's permission edges. The board owner comes
// from the caller because nested task rows are loaded without their board.
func taskToDomain(r taskRecord, boardOwnerID int64) domain.Task {
	t := domain.Task{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Status:       domain.Status(r.Status),
		CreatedBy:    userToDomain(r.CreatedBy),
		BoardID:      r.BoardID,
		BoardOwnerID: boardOwnerID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Assignee != nil {
		assignee := userToDomain(*r.Assignee)
		t.Assignee = &assignee
	}
	return t
}

func boardToDomain(r boardRecord) domain.Board {
	b := domain.Board{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Owner:       userToDomain(r.Owner),
		Tasks:       make([]domain.Task, 0, len(r.Tasks)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, tr := range r.Tasks {
		b.Tasks = append(b.Tasks, taskToDomain(tr, r.OwnerID))
	}
	return b
}

func boardUpdates(ch domain.BoardChanges) map[string]any {
	updates := map[string]any{}
	if ch.Name != nil {
		updates["name"] = *ch.Name
	}
	if ch.Description != nil {
		updates["description"] = *ch.Description
	}
	return updates
}

// taskUpdates builds the column set for a partial task update. The assignee
// column is always written: updates without a resolvable assignee clear it.
func taskUpdates(ch domain.TaskChanges) map[string]any {
	updates := map[string]any{"assignee_id": ch.AssigneeID}
	if ch.Title != nil {
		updates["title"] = *ch.Title
	}
	if ch.Description != nil {
		updates["description"] = *ch.Description
	}
	if ch.Status != nil {
		updates["status"] = string(*ch.Status)
	}
	if ch.BoardID != nil {
		updates["board_id"] = *ch.BoardID
	}
	return updates
}
