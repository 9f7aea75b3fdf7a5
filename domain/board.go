package domain

import "time"

// Board is a container of tasks with exactly one owner. The serialized form
// embeds the contained tasks and the owner's public profile.
type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tasks       []Task    `json:"tasks"`
	Owner       User      `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardChanges carries a partial update for a board. Nil fields are left
// untouched. The owner is immutable after creation and therefore has no slot
// here.
type BoardChanges struct {
	Name        *string
	Description *string
}
