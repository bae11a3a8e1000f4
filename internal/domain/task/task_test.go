package task_test

import (
	"testing"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

func seedUser(role user.Role, status user.Status) *user.User {
	now := time.Now().UTC()
	return user.FromSnapshot(user.Snapshot{
		ID:        ids.NewUserID(),
		Name:      "Seed User",
		Email:     "seed@example.com",
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func seedTask(t *testing.T, mut func(s *task.Snapshot)) *task.Task {
	t.Helper()
	now := time.Now().UTC()
	s := task.Snapshot{
		ID:        ids.NewTaskID(),
		Title:     "Implement rate limiting",
		Status:    task.StatusToDo,
		Priority:  task.PriorityMedium,
		ProjectID: ids.NewProjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mut != nil {
		mut(&s)
	}
	return task.FromSnapshot(s)
}

func subtaskOf(t *testing.T, parent *task.Task, status task.Status) *task.Task {
	t.Helper()
	parentID := parent.ID()
	sub := seedTask(t, func(s *task.Snapshot) {
		s.Title = "Subtask"
		s.Status = status
		s.ProjectID = parent.ProjectID()
		s.ParentTaskID = &parentID
	})
	if err := parent.AddSubtask(sub); err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	return sub
}

func TestNewValidatesInput(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	projectID := ids.NewProjectID()
	past := time.Now().UTC().Add(-time.Hour)
	zeroHours := 0

	cases := []struct {
		name string
		fn   func() error
	}{
		{"short title", func() error {
			_, err := task.New("ab", "", task.PriorityLow, projectID, nil, nil, nil, dev)
			return err
		}},
		{"bad priority", func() error {
			_, err := task.New("Valid title", "", task.Priority("urgent"), projectID, nil, nil, nil, dev)
			return err
		}},
		{"zero project", func() error {
			_, err := task.New("Valid title", "", task.PriorityLow, ids.ProjectID{}, nil, nil, nil, dev)
			return err
		}},
		{"past due date", func() error {
			_, err := task.New("Valid title", "", task.PriorityLow, projectID, nil, &past, nil, dev)
			return err
		}},
		{"zero estimate", func() error {
			_, err := task.New("Valid title", "", task.PriorityLow, projectID, nil, nil, &zeroHours, dev)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !validate.IsArgument(err) {
				t.Fatalf("want argument error, got %v", err)
			}
		})
	}
}

func TestStartAutoAssignsAndOrdersEvents(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, nil)

	if err := tk.Start(dev); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tk.Status() != task.StatusInProgress {
		t.Fatalf("status: want=in_progress got=%s", tk.Status())
	}
	if tk.AssignedUserID() == nil || *tk.AssignedUserID() != dev.ID() {
		t.Fatalf("task must be auto-assigned to the starter")
	}
	if tk.StartedAt() == nil {
		t.Fatalf("StartedAt must be stamped")
	}

	evs := tk.DomainEvents()
	if len(evs) != 2 {
		t.Fatalf("events: want=2 got=%d", len(evs))
	}
	assigned, ok := evs[0].(events.TaskAssigned)
	if !ok {
		t.Fatalf("first event must be TaskAssigned, got %T", evs[0])
	}
	if assigned.AssigneeID != dev.ID() {
		t.Fatalf("assignee mismatch: %+v", assigned)
	}
	changed, ok := evs[1].(events.TaskStatusChanged)
	if !ok {
		t.Fatalf("second event must be TaskStatusChanged, got %T", evs[1])
	}
	if changed.FromStatus != "todo" || changed.ToStatus != "in_progress" {
		t.Fatalf("unexpected transition payload: %+v", changed)
	}
}

func TestStartRejectedWhenAssignedToSomeoneElse(t *testing.T) {
	owner := seedUser(user.RoleDeveloper, user.StatusActive)
	intruder := seedUser(user.RoleDeveloper, user.StatusActive)
	ownerID := owner.ID()
	tk := seedTask(t, func(s *task.Snapshot) { s.AssignedUserID = &ownerID })

	if err := tk.Start(intruder); !validate.IsRule(err) {
		t.Fatalf("want rule error, got %v", err)
	}
	if tk.Status() != task.StatusToDo {
		t.Fatalf("status must be unchanged")
	}
}

func TestStartIllegalFromTerminal(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	for _, status := range []task.Status{task.StatusDone, task.StatusCancelled, task.StatusInProgress} {
		tk := seedTask(t, func(s *task.Snapshot) { s.Status = status })
		if err := tk.Start(dev); !validate.IsRule(err) {
			t.Fatalf("status %s: want rule error, got %v", status, err)
		}
		if tk.Status() != status {
			t.Fatalf("status %s must be unchanged", status)
		}
	}
}

func TestSubmitForReviewOnlyByAssignee(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	other := seedUser(user.RoleDeveloper, user.StatusActive)
	devID := dev.ID()
	tk := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusInProgress
		s.AssignedUserID = &devID
	})

	if err := tk.SubmitForReview(other); !validate.IsRule(err) {
		t.Fatalf("non-assignee submit must fail, got %v", err)
	}
	if err := tk.SubmitForReview(dev); err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}
	if tk.Status() != task.StatusInReview {
		t.Fatalf("status: want=in_review got=%s", tk.Status())
	}

	unassigned := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	if err := unassigned.SubmitForReview(dev); !validate.IsRule(err) {
		t.Fatalf("unassigned submit must fail, got %v", err)
	}
}

func TestTransitionTableClosure(t *testing.T) {
	all := []task.Status{
		task.StatusToDo, task.StatusInProgress, task.StatusInReview,
		task.StatusDone, task.StatusCancelled,
	}
	legal := map[task.Status][]task.Status{
		task.StatusToDo:       {task.StatusInProgress, task.StatusCancelled},
		task.StatusInProgress: {task.StatusInReview, task.StatusDone, task.StatusCancelled},
		task.StatusInReview:   {task.StatusInProgress, task.StatusDone, task.StatusCancelled},
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, l := range legal[from] {
				if l == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: want=%v got=%v", from, to, want, got)
			}
		}
	}
}

func TestCompleteGatedOnSubtasks(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	subtaskOf(t, tk, task.StatusDone)
	subtaskOf(t, tk, task.StatusInProgress)

	err := tk.Complete(dev, nil)
	if !validate.IsRule(err) {
		t.Fatalf("want rule error for incomplete subtasks, got %v", err)
	}
	if tk.Status() != task.StatusInProgress {
		t.Fatalf("status must be unchanged, got %s", tk.Status())
	}
	if tk.CompletedAt() != nil {
		t.Fatalf("CompletedAt must stay nil on failure")
	}
}

func TestCompleteSucceedsWhenSubtasksTerminal(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	subtaskOf(t, tk, task.StatusDone)
	subtaskOf(t, tk, task.StatusCancelled)
	tk.ClearDomainEvents()

	hours := 12
	if err := tk.Complete(dev, &hours); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tk.Status() != task.StatusDone {
		t.Fatalf("status: want=done got=%s", tk.Status())
	}
	if tk.CompletedAt() == nil || tk.ActualHours() == nil || *tk.ActualHours() != 12 {
		t.Fatalf("completion bookkeeping missing")
	}
}

func TestCompleteRejectsNonPositiveHours(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	zero := 0
	if err := tk.Complete(dev, &zero); !validate.IsArgument(err) {
		t.Fatalf("want argument error for zero hours, got %v", err)
	}
	if tk.Status() != task.StatusInProgress {
		t.Fatalf("status must be unchanged")
	}
}

func TestCancelCascadesToSubtasks(t *testing.T) {
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	todo := subtaskOf(t, tk, task.StatusToDo)
	inProgress := subtaskOf(t, tk, task.StatusInProgress)
	inReview := subtaskOf(t, tk, task.StatusInReview)
	done := subtaskOf(t, tk, task.StatusDone)
	tk.ClearDomainEvents()

	if err := tk.Cancel(admin); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if tk.Status() != task.StatusCancelled {
		t.Fatalf("status: want=cancelled got=%s", tk.Status())
	}
	for _, sub := range []*task.Task{todo, inProgress, inReview} {
		if sub.Status() != task.StatusCancelled {
			t.Fatalf("subtask %s not cancelled: %s", sub.ID(), sub.Status())
		}
	}
	if done.Status() != task.StatusDone {
		t.Fatalf("done subtask must be untouched")
	}

	// Three cascade events plus the root's own status change, root's last.
	evs := tk.DomainEvents()
	if len(evs) != 4 {
		t.Fatalf("events: want=4 got=%d", len(evs))
	}
	last := evs[3].(events.TaskStatusChanged)
	if last.TaskID != tk.ID() || last.ToStatus != "cancelled" {
		t.Fatalf("root status event must come last: %+v", last)
	}
}

func TestCancelRejectedWhenDone(t *testing.T) {
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusDone })
	if err := tk.Cancel(admin); !validate.IsRule(err) {
		t.Fatalf("want rule error, got %v", err)
	}
	if tk.Status() != task.StatusDone {
		t.Fatalf("status must be unchanged")
	}
}

func TestCancelAlreadyCancelledIsNoOp(t *testing.T) {
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	tk := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusCancelled })
	if err := tk.Cancel(admin); err != nil {
		t.Fatalf("cancelling a cancelled task is a no-op: %v", err)
	}
	if len(tk.DomainEvents()) != 0 {
		t.Fatalf("no-op must not emit events")
	}
}

func TestReopen(t *testing.T) {
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	started := time.Now().UTC().Add(-2 * time.Hour)
	completed := time.Now().UTC().Add(-time.Hour)
	hours := 8

	wasStarted := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusDone
		s.StartedAt = &started
		s.CompletedAt = &completed
		s.ActualHours = &hours
	})
	if err := wasStarted.Reopen(admin); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if wasStarted.Status() != task.StatusInProgress {
		t.Fatalf("previously started task reopens to in_progress, got %s", wasStarted.Status())
	}
	if wasStarted.CompletedAt() != nil || wasStarted.ActualHours() != nil {
		t.Fatalf("completion bookkeeping must clear")
	}

	neverStarted := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusCancelled })
	if err := neverStarted.Reopen(admin); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if neverStarted.Status() != task.StatusToDo {
		t.Fatalf("never-started task reopens to todo, got %s", neverStarted.Status())
	}

	open := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusInProgress })
	if err := open.Reopen(admin); !validate.IsRule(err) {
		t.Fatalf("reopening a non-terminal task must fail, got %v", err)
	}
}

func TestAssignTo(t *testing.T) {
	manager := seedUser(user.RoleProjectManager, user.StatusActive)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, nil)

	if err := tk.AssignTo(dev, manager); err != nil {
		t.Fatalf("AssignTo: %v", err)
	}
	if tk.AssignedUserID() == nil || *tk.AssignedUserID() != dev.ID() {
		t.Fatalf("assignment not applied")
	}

	// Same assignee again is rejected.
	if err := tk.AssignTo(dev, manager); !validate.IsRule(err) {
		t.Fatalf("want rule error for repeat assignment, got %v", err)
	}

	suspended := seedUser(user.RoleDeveloper, user.StatusSuspended)
	if err := tk.AssignTo(suspended, manager); !validate.IsRule(err) {
		t.Fatalf("want rule error for suspended assignee, got %v", err)
	}

	doneTask := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusDone })
	if err := doneTask.AssignTo(dev, manager); !validate.IsRule(err) {
		t.Fatalf("want rule error for terminal task, got %v", err)
	}
}

func TestUnassign(t *testing.T) {
	manager := seedUser(user.RoleProjectManager, user.StatusActive)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	devID := dev.ID()

	tk := seedTask(t, nil)
	if err := tk.Unassign(manager); !validate.IsRule(err) {
		t.Fatalf("unassigning an unassigned task must fail, got %v", err)
	}

	assigned := seedTask(t, func(s *task.Snapshot) { s.AssignedUserID = &devID })
	if err := assigned.Unassign(manager); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if assigned.AssignedUserID() != nil {
		t.Fatalf("assignment must clear")
	}

	doneTask := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusDone
		s.AssignedUserID = &devID
	})
	if err := doneTask.Unassign(manager); !validate.IsRule(err) {
		t.Fatalf("unassigning a done task must fail, got %v", err)
	}
}

func TestSingleLevelNesting(t *testing.T) {
	parent := seedTask(t, nil)
	sub := subtaskOf(t, parent, task.StatusToDo)

	// A subtask can never acquire subtasks, whatever the candidate looks like.
	subID := sub.ID()
	grandchild := seedTask(t, func(s *task.Snapshot) { s.ParentTaskID = &subID })
	if err := sub.AddSubtask(grandchild); !validate.IsRule(err) {
		t.Fatalf("want rule error for double nesting, got %v", err)
	}
	if sub.HasSubtasks() {
		t.Fatalf("subtask roster must stay empty")
	}
}

func TestAddSubtaskParentReferenceChecks(t *testing.T) {
	parent := seedTask(t, nil)

	orphan := seedTask(t, nil)
	if err := parent.AddSubtask(orphan); !validate.IsRule(err) {
		t.Fatalf("candidate without back-reference must fail, got %v", err)
	}

	otherID := ids.NewTaskID()
	stranger := seedTask(t, func(s *task.Snapshot) { s.ParentTaskID = &otherID })
	if err := parent.AddSubtask(stranger); !validate.IsRule(err) {
		t.Fatalf("candidate referencing another parent must fail, got %v", err)
	}

	sub := subtaskOf(t, parent, task.StatusToDo)
	if err := parent.AddSubtask(sub); !validate.IsRule(err) {
		t.Fatalf("duplicate subtask must fail, got %v", err)
	}
}

func TestCompletionPercentage(t *testing.T) {
	plain := seedTask(t, nil)
	if plain.CompletionPercentage() != 0 {
		t.Fatalf("open task without subtasks is 0%%")
	}
	doneTask := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusDone })
	if doneTask.CompletionPercentage() != 100 {
		t.Fatalf("done task without subtasks is 100%%")
	}

	parent := seedTask(t, nil)
	subtaskOf(t, parent, task.StatusDone)
	subtaskOf(t, parent, task.StatusDone)
	subtaskOf(t, parent, task.StatusInProgress)
	subtaskOf(t, parent, task.StatusCancelled)
	if got := parent.CompletionPercentage(); got != 50 {
		t.Fatalf("completion: want=50 got=%d", got)
	}
}

func TestIsOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	overdue := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusInProgress
		s.DueDate = &past
	})
	if !overdue.IsOverdue() {
		t.Fatalf("past due open task is overdue")
	}
	onTime := seedTask(t, func(s *task.Snapshot) { s.DueDate = &future })
	if onTime.IsOverdue() {
		t.Fatalf("future due date is not overdue")
	}
	doneLate := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusDone
		s.DueDate = &past
	})
	if doneLate.IsOverdue() {
		t.Fatalf("terminal tasks are never overdue")
	}
}

func TestDuration(t *testing.T) {
	unstarted := seedTask(t, nil)
	if unstarted.Duration() != nil {
		t.Fatalf("unstarted task has no duration")
	}

	started := time.Now().UTC().Add(-3 * time.Hour)
	completed := started.Add(2 * time.Hour)
	finished := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusDone
		s.StartedAt = &started
		s.CompletedAt = &completed
	})
	d := finished.Duration()
	if d == nil || *d != 2*time.Hour {
		t.Fatalf("duration: want=2h got=%v", d)
	}

	running := seedTask(t, func(s *task.Snapshot) {
		s.Status = task.StatusInProgress
		s.StartedAt = &started
	})
	rd := running.Duration()
	if rd == nil || *rd < 3*time.Hour-time.Minute {
		t.Fatalf("running duration should measure to now, got %v", rd)
	}
}

func TestSetDueDate(t *testing.T) {
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	tk := seedTask(t, nil)
	past := time.Now().UTC().Add(-time.Hour)
	if err := tk.SetDueDate(&past, dev); !validate.IsArgument(err) {
		t.Fatalf("past due date must fail, got %v", err)
	}
	future := time.Now().UTC().Add(24 * time.Hour)
	if err := tk.SetDueDate(&future, dev); err != nil {
		t.Fatalf("SetDueDate: %v", err)
	}

	doneTask := seedTask(t, func(s *task.Snapshot) { s.Status = task.StatusDone })
	if err := doneTask.SetDueDate(&past, dev); err != nil {
		t.Fatalf("done tasks skip the future check: %v", err)
	}
}

func TestSnapshotRoundTripWithSubtasks(t *testing.T) {
	parent := seedTask(t, nil)
	subtaskOf(t, parent, task.StatusDone)
	subtaskOf(t, parent, task.StatusToDo)

	snap := parent.Snapshot()
	restored := task.FromSnapshot(snap)
	if restored.ID() != parent.ID() {
		t.Fatalf("id mismatch")
	}
	subs := restored.Subtasks()
	if len(subs) != 2 {
		t.Fatalf("subtasks: want=2 got=%d", len(subs))
	}
	if !subs[0].IsSubtask() || subs[0].ParentTaskID() == nil || *subs[0].ParentTaskID() != parent.ID() {
		t.Fatalf("subtask back-reference lost")
	}
}
