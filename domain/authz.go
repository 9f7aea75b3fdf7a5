package domain

// Authorization predicates. Every handler consults these and only these; the
// rules are never re-derived per endpoint.
//
// Board rules: the owner has unconditional control. A user assigned to any
// task on a board may see the board but not change or delete it.
//
// Task rules: board owner, assignee and creator may view and edit a task.
// Deleting requires board owner or creator; an assignee alone cannot delete.

// CanViewBoard reports whether the actor may read the board.
func CanViewBoard(actorID int64, b Board) bool {
	if b.Owner.ID == actorID {
		return true
	}
	for _, t := range b.Tasks {
		if t.Assignee != nil && t.Assignee.ID == actorID {
			return true
		}
	}
	return false
}

// CanEditBoard reports whether the actor may update the board's fields.
func CanEditBoard(actorID int64, b Board) bool {
	return b.Owner.ID == actorID
}

// CanDeleteBoard reports whether the actor may delete the board and all of
// its tasks.
func CanDeleteBoard(actorID int64, b Board) bool {
	return b.Owner.ID == actorID
}

// CanCreateTask reports whether the actor may add a task to the board.
func CanCreateTask(actorID int64, b Board) bool {
	return b.Owner.ID == actorID
}

// CanViewTask reports whether the actor may read the task.
func CanViewTask(actorID int64, t Task) bool {
	return t.BoardOwnerID == actorID ||
		(t.Assignee != nil && t.Assignee.ID == actorID) ||
		t.CreatedBy.ID == actorID
}

// CanEditTask reports whether the actor may update the task, including its
// status.
func CanEditTask(actorID int64, t Task) bool {
	return CanViewTask(actorID, t)
}

// CanDeleteTask reports whether the actor may delete the task.
func CanDeleteTask(actorID int64, t Task) bool {
	return t.BoardOwnerID == actorID || t.CreatedBy.ID == actorID
}
