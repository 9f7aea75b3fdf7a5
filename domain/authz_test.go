package domain

import "testing"

const (
	ownerID    int64 = 1
	assigneeID int64 = 2
	creatorID  int64 = 3
	strangerID int64 = 4
)

func boardFixture() Board {
	assignee := User{ID: assigneeID}
	return Board{
		ID:    10,
		Owner: User{ID: ownerID},
		Tasks: []Task{
			{ID: 100, BoardID: 10, BoardOwnerID: ownerID, CreatedBy: User{ID: creatorID}},
			{ID: 101, BoardID: 10, BoardOwnerID: ownerID, CreatedBy: User{ID: ownerID}, Assignee: &assignee},
		},
	}
}

func taskFixture() Task {
	assignee := User{ID: assigneeID}
	return Task{
		ID:           100,
		BoardID:      10,
		BoardOwnerID: ownerID,
		CreatedBy:    User{ID: creatorID},
		Assignee:     &assignee,
	}
}

func TestCanViewBoard(t *testing.T) {
	b := boardFixture()
	cases := map[string]struct {
		actor int64
		want  bool
	}{
		"owner":             {ownerID, true},
		"assignee_of_task":  {assigneeID, true},
		"creator_of_task":   {creatorID, false},
		"unrelated_user":    {strangerID, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := CanViewBoard(tc.actor, b); got != tc.want {
				t.Fatalf("CanViewBoard(%d) = %v, want %v", tc.actor, got, tc.want)
			}
		})
	}
}

func TestCanViewBoardNoTasks(t *testing.T) {
	b := Board{ID: 11, Owner: User{ID: ownerID}}
	if !CanViewBoard(ownerID, b) {
		t.Fatal("owner must see an empty board")
	}
	if CanViewBoard(assigneeID, b) {
		t.Fatal("non-owner must not see a board with no assigned tasks")
	}
}

func TestBoardMutationOwnerOnly(t *testing.T) {
	b := boardFixture()
	for _, actor := range []int64{assigneeID, creatorID, strangerID} {
		if CanEditBoard(actor, b) {
			t.Fatalf("user %d must not edit a board they do not own", actor)
		}
		if CanDeleteBoard(actor, b) {
			t.Fatalf("user %d must not delete a board they do not own", actor)
		}
		if CanCreateTask(actor, b) {
			t.Fatalf("user %d must not add tasks to a board they do not own", actor)
		}
	}
	if !CanEditBoard(ownerID, b) || !CanDeleteBoard(ownerID, b) || !CanCreateTask(ownerID, b) {
		t.Fatal("owner must hold full control of the board")
	}
}

func TestCanViewAndEditTask(t *testing.T) {
	task := taskFixture()
	cases := map[string]struct {
		actor int64
		want  bool
	}{
		"board_owner": {ownerID, true},
		"assignee":    {assigneeID, true},
		"creator":     {creatorID, true},
		"stranger":    {strangerID, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := CanViewTask(tc.actor, task); got != tc.want {
				t.Fatalf("CanViewTask(%d) = %v, want %v", tc.actor, got, tc.want)
			}
			if got := CanEditTask(tc.actor, task); got != tc.want {
				t.Fatalf("CanEditTask(%d) = %v, want %v", tc.actor, got, tc.want)
			}
		})
	}
}

func TestCanDeleteTaskExcludesAssignee(t *testing.T) {
	task := taskFixture()
	if !CanDeleteTask(ownerID, task) {
		t.Fatal("board owner must be able to delete the task")
	}
	if !CanDeleteTask(creatorID, task) {
		t.Fatal("creator must be able to delete the task")
	}
	if CanDeleteTask(assigneeID, task) {
		t.Fatal("assignee alone must not delete the task")
	}
	if CanDeleteTask(strangerID, task) {
		t.Fatal("unrelated user must not delete the task")
	}
}

func TestTaskWithoutAssignee(t *testing.T) {
	task := taskFixture()
	task.Assignee = nil
	if CanViewTask(assigneeID, task) {
		t.Fatal("former assignee must lose access once unassigned")
	}
	if !CanViewTask(creatorID, task) {
		t.Fatal("creator access must survive unassignment")
	}
}
