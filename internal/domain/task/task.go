// Package task implements the Task aggregate: the status machine, assignment,
// and the single-level subtask hierarchy. A parent owns its subtasks by value;
// subtasks point back by id only, never by live pointer. Events produced by a
// cascade land on the root task's list so a single drain sees a causally
// ordered sequence.
package task

import (
	"strings"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/policy"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

type Task struct {
	events.Recorder

	id             ids.TaskID
	title          string
	description    string
	status         Status
	priority       Priority
	projectID      ids.ProjectID
	assignedUserID *ids.UserID
	parentTaskID   *ids.TaskID
	estimatedHours *int
	actualHours    *int
	dueDate        *time.Time
	startedAt      *time.Time
	completedAt    *time.Time
	subtasks       []*Task

	createdAt time.Time
	updatedAt time.Time
	createdBy *ids.UserID
	updatedBy *ids.UserID
}

// New creates a task in ToDo, optionally as a subtask of parentTaskID. The
// single-level nesting rule is enforced when the parent adopts it via
// AddSubtask; creation only checks shape.
func New(title, description string, priority Priority, projectID ids.ProjectID, parentTaskID *ids.TaskID, dueDate *time.Time, estimatedHours *int, creator *user.User) (*Task, error) {
	if err := validateDetails(title, description); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, validate.Argument("priority", "unknown priority")
	}
	if projectID.IsZero() {
		return nil, validate.Argument("projectID", "must not be zero")
	}
	now := time.Now().UTC()
	if err := validate.FutureDateOrNil("dueDate", dueDate, now, validate.FutureDateSkew); err != nil {
		return nil, err
	}
	if estimatedHours != nil {
		if err := validate.Positive("estimatedHours", *estimatedHours); err != nil {
			return nil, err
		}
	}
	if err := user.RequireActor(creator); err != nil {
		return nil, err
	}
	creatorID := creator.ID()
	t := &Task{
		id:             ids.NewTaskID(),
		title:          strings.TrimSpace(title),
		description:    strings.TrimSpace(description),
		status:         StatusToDo,
		priority:       priority,
		projectID:      projectID,
		parentTaskID:   parentTaskID,
		dueDate:        dueDate,
		estimatedHours: estimatedHours,
		createdAt:      now,
		updatedAt:      now,
		createdBy:      &creatorID,
	}
	t.Record(events.TaskCreated{
		Base:         events.NewBase(creatorID),
		TaskID:       t.id,
		ProjectID:    projectID,
		ParentTaskID: parentTaskID,
		Title:        t.title,
	})
	return t, nil
}

func validateDetails(title, description string) error {
	return validate.All(
		validate.NotBlank("title", title),
		validate.MinLength("title", title, TitleMinLen),
		validate.MaxLength("title", title, TitleMaxLen),
		validate.MaxLength("description", description, DescriptionMaxLen),
	)
}

func (t *Task) ID() ids.TaskID               { return t.id }
func (t *Task) Title() string                { return t.title }
func (t *Task) Description() string          { return t.description }
func (t *Task) Status() Status               { return t.status }
func (t *Task) Priority() Priority           { return t.priority }
func (t *Task) ProjectID() ids.ProjectID     { return t.projectID }
func (t *Task) AssignedUserID() *ids.UserID  { return t.assignedUserID }
func (t *Task) ParentTaskID() *ids.TaskID    { return t.parentTaskID }
func (t *Task) EstimatedHours() *int         { return t.estimatedHours }
func (t *Task) ActualHours() *int            { return t.actualHours }
func (t *Task) DueDate() *time.Time          { return t.dueDate }
func (t *Task) StartedAt() *time.Time        { return t.startedAt }
func (t *Task) CompletedAt() *time.Time      { return t.completedAt }
func (t *Task) CreatedAt() time.Time         { return t.createdAt }
func (t *Task) UpdatedAt() time.Time         { return t.updatedAt }

func (t *Task) IsAssigned() bool { return t.assignedUserID != nil }
func (t *Task) IsSubtask() bool  { return t.parentTaskID != nil }
func (t *Task) HasSubtasks() bool { return len(t.subtasks) > 0 }

// IsOverdue reports whether the due date has passed on a non-terminal task.
func (t *Task) IsOverdue() bool {
	if t.dueDate == nil || t.status.IsTerminal() {
		return false
	}
	return t.dueDate.Before(time.Now().UTC())
}

// Subtasks returns the direct subtasks.
func (t *Task) Subtasks() []*Task {
	out := make([]*Task, len(t.subtasks))
	copy(out, t.subtasks)
	return out
}

// CompletionPercentage derives progress from direct subtasks; without
// subtasks it is all-or-nothing on the task's own status.
func (t *Task) CompletionPercentage() int {
	if len(t.subtasks) == 0 {
		if t.status == StatusDone {
			return 100
		}
		return 0
	}
	done := 0
	for _, st := range t.subtasks {
		if st.status == StatusDone {
			done++
		}
	}
	return done * 100 / len(t.subtasks)
}

// Duration measures StartedAt to CompletedAt, or to now while still running.
func (t *Task) Duration() *time.Duration {
	if t.startedAt == nil {
		return nil
	}
	end := time.Now().UTC()
	if t.completedAt != nil {
		end = *t.completedAt
	}
	d := end.Sub(*t.startedAt)
	return &d
}

// Start moves the task to InProgress. An unassigned task is auto-assigned to
// the starting user, with the assignment event emitted before the status
// event; a task assigned to someone else cannot be started.
func (t *Task) Start(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if !t.status.CanTransitionTo(StatusInProgress) {
		return t.transitionError(StatusInProgress)
	}
	actorID := actor.ID()
	if t.assignedUserID != nil && *t.assignedUserID != actorID {
		return validate.Rulef("task %q is assigned to another user", t.title)
	}
	if t.assignedUserID == nil {
		if !policy.CanBeAssignedTasks(actor) {
			return validate.Rulef("user %s cannot be assigned tasks", actorID)
		}
		t.assignedUserID = &actorID
		t.Record(events.TaskAssigned{
			Base:       events.NewBase(actorID),
			TaskID:     t.id,
			AssigneeID: actorID,
		})
	}
	if t.startedAt == nil {
		now := time.Now().UTC()
		t.startedAt = &now
	}
	t.changeStatus(StatusInProgress, actorID)
	return nil
}

// SubmitForReview moves InProgress -> InReview; only the assignee may submit.
func (t *Task) SubmitForReview(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if t.assignedUserID == nil || *t.assignedUserID != actor.ID() {
		return validate.Rulef("only the assigned user may submit task %q for review", t.title)
	}
	if !t.status.CanTransitionTo(StatusInReview) {
		return t.transitionError(StatusInReview)
	}
	t.changeStatus(StatusInReview, actor.ID())
	return nil
}

// Complete moves the task to Done. Rejected while any direct subtask is
// neither Done nor Cancelled. Actual hours, when given, must be positive.
func (t *Task) Complete(actor *user.User, actualHours *int) error {
	if actualHours != nil {
		if err := validate.Positive("actualHours", *actualHours); err != nil {
			return err
		}
	}
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if !t.status.CanTransitionTo(StatusDone) {
		return t.transitionError(StatusDone)
	}
	for _, st := range t.subtasks {
		if !st.status.IsTerminal() {
			return validate.Rulef("task %q has incomplete subtasks", t.title)
		}
	}
	now := time.Now().UTC()
	t.completedAt = &now
	if actualHours != nil {
		t.actualHours = actualHours
	}
	t.changeStatus(StatusDone, actor.ID())
	return nil
}

// Cancel is rejected only on a Done task. Every non-terminal direct subtask
// is cancelled by the same actor; a task already Cancelled is left untouched.
func (t *Task) Cancel(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if t.status == StatusDone {
		return validate.Rulef("task %q is done and cannot be cancelled", t.title)
	}
	if t.status == StatusCancelled {
		return nil
	}
	actorID := actor.ID()
	for _, st := range t.subtasks {
		if st.status.IsTerminal() {
			continue
		}
		from := st.status
		st.status = StatusCancelled
		st.touch(actorID)
		t.Record(events.TaskStatusChanged{
			Base:       events.NewBase(actorID),
			TaskID:     st.id,
			FromStatus: from.String(),
			ToStatus:   StatusCancelled.String(),
		})
	}
	t.changeStatus(StatusCancelled, actorID)
	return nil
}

// Reopen returns a Done or Cancelled task to life: InProgress when it had
// been started before, ToDo otherwise. Completion bookkeeping is cleared.
func (t *Task) Reopen(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if !t.status.IsTerminal() {
		return validate.Rulef("task %q is %s; only done or cancelled tasks can be reopened", t.title, t.status)
	}
	target := StatusToDo
	if t.startedAt != nil {
		target = StatusInProgress
	}
	t.completedAt = nil
	t.actualHours = nil
	t.changeStatus(target, actor.ID())
	return nil
}

// AssignTo assigns the task to assignee on behalf of assignedBy.
func (t *Task) AssignTo(assignee *user.User, assignedBy *user.User) error {
	if assignee == nil {
		return validate.Argument("assignee", "must not be nil")
	}
	if err := user.RequireActor(assignedBy); err != nil {
		return err
	}
	if t.status.IsTerminal() {
		return validate.Rulef("task %q is %s and cannot be assigned", t.title, t.status)
	}
	if !policy.CanBeAssignedTasks(assignee) {
		return validate.Rulef("user %s cannot be assigned tasks", assignee.ID())
	}
	assigneeID := assignee.ID()
	if t.assignedUserID != nil && *t.assignedUserID == assigneeID {
		return validate.Rulef("task %q is already assigned to user %s", t.title, assigneeID)
	}
	t.assignedUserID = &assigneeID
	t.touch(assignedBy.ID())
	t.Record(events.TaskAssigned{
		Base:       events.NewBase(assignedBy.ID()),
		TaskID:     t.id,
		AssigneeID: assigneeID,
	})
	return nil
}

// Unassign clears the assignment; rejected when unassigned or Done.
func (t *Task) Unassign(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if t.assignedUserID == nil {
		return validate.Rulef("task %q is not assigned", t.title)
	}
	if t.status == StatusDone {
		return validate.Rulef("task %q is done and cannot be unassigned", t.title)
	}
	t.assignedUserID = nil
	t.touch(actor.ID())
	t.Record(events.TaskUnassigned{
		Base:   events.NewBase(actor.ID()),
		TaskID: t.id,
	})
	return nil
}

// AddSubtask adopts sub into the roster. Nesting is one level deep: a task
// that is itself a subtask cannot acquire subtasks, and sub must already
// reference this task as its parent.
func (t *Task) AddSubtask(sub *Task) error {
	if sub == nil {
		return validate.Argument("sub", "must not be nil")
	}
	if t.parentTaskID != nil {
		return validate.Rulef("task %q is a subtask and cannot have subtasks of its own", t.title)
	}
	if sub.parentTaskID == nil || *sub.parentTaskID != t.id {
		return validate.Rulef("task %q does not reference %q as its parent", sub.title, t.title)
	}
	for _, existing := range t.subtasks {
		if existing.id == sub.id {
			return validate.Rulef("task %q is already a subtask of %q", sub.title, t.title)
		}
	}
	t.subtasks = append(t.subtasks, sub)
	return nil
}

// Subtask looks up a direct subtask by id.
func (t *Task) Subtask(id ids.TaskID) (*Task, bool) {
	for _, st := range t.subtasks {
		if st.id == id {
			return st, true
		}
	}
	return nil, false
}

// UpdateDetails changes title, description and the estimate.
func (t *Task) UpdateDetails(title, description string, estimatedHours *int, actor *user.User) error {
	if err := validateDetails(title, description); err != nil {
		return err
	}
	if estimatedHours != nil {
		if err := validate.Positive("estimatedHours", *estimatedHours); err != nil {
			return err
		}
	}
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	t.title = strings.TrimSpace(title)
	t.description = strings.TrimSpace(description)
	t.estimatedHours = estimatedHours
	t.touch(actor.ID())
	return nil
}

// SetDueDate changes the due date; it must lie in the future (with the skew
// buffer) unless the task is already Done.
func (t *Task) SetDueDate(dueDate *time.Time, actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if t.status != StatusDone {
		if err := validate.FutureDateOrNil("dueDate", dueDate, time.Now().UTC(), validate.FutureDateSkew); err != nil {
			return err
		}
	}
	t.dueDate = dueDate
	t.touch(actor.ID())
	return nil
}

// ChangePriority adjusts the priority.
func (t *Task) ChangePriority(priority Priority, actor *user.User) error {
	if !priority.IsValid() {
		return validate.Argument("priority", "unknown priority")
	}
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	t.priority = priority
	t.touch(actor.ID())
	return nil
}

func (t *Task) changeStatus(to Status, actor ids.UserID) {
	from := t.status
	t.status = to
	t.touch(actor)
	t.Record(events.TaskStatusChanged{
		Base:       events.NewBase(actor),
		TaskID:     t.id,
		FromStatus: from.String(),
		ToStatus:   to.String(),
	})
}

func (t *Task) transitionError(to Status) error {
	return validate.Rulef("task %q cannot move from %s to %s", t.title, t.status, to)
}

func (t *Task) touch(actor ids.UserID) {
	t.updatedAt = time.Now().UTC()
	t.updatedBy = &actor
}

type Snapshot struct {
	ID             ids.TaskID
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	ProjectID      ids.ProjectID
	AssignedUserID *ids.UserID
	ParentTaskID   *ids.TaskID
	EstimatedHours *int
	ActualHours    *int
	DueDate        *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Subtasks       []Snapshot
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      *ids.UserID
	UpdatedBy      *ids.UserID
}

func FromSnapshot(s Snapshot) *Task {
	t := &Task{
		id:             s.ID,
		title:          s.Title,
		description:    s.Description,
		status:         s.Status,
		priority:       s.Priority,
		projectID:      s.ProjectID,
		assignedUserID: s.AssignedUserID,
		parentTaskID:   s.ParentTaskID,
		estimatedHours: s.EstimatedHours,
		actualHours:    s.ActualHours,
		dueDate:        s.DueDate,
		startedAt:      s.StartedAt,
		completedAt:    s.CompletedAt,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		createdBy:      s.CreatedBy,
		updatedBy:      s.UpdatedBy,
	}
	for _, sub := range s.Subtasks {
		t.subtasks = append(t.subtasks, FromSnapshot(sub))
	}
	return t
}

func (t *Task) Snapshot() Snapshot {
	s := Snapshot{
		ID:             t.id,
		Title:          t.title,
		Description:    t.description,
		Status:         t.status,
		Priority:       t.priority,
		ProjectID:      t.projectID,
		AssignedUserID: t.assignedUserID,
		ParentTaskID:   t.parentTaskID,
		EstimatedHours: t.estimatedHours,
		ActualHours:    t.actualHours,
		DueDate:        t.dueDate,
		StartedAt:      t.startedAt,
		CompletedAt:    t.completedAt,
		CreatedAt:      t.createdAt,
		UpdatedAt:      t.updatedAt,
		CreatedBy:      t.createdBy,
		UpdatedBy:      t.updatedBy,
	}
	for _, sub := range t.subtasks {
		s.Subtasks = append(s.Subtasks, sub.Snapshot())
	}
	return s
}
