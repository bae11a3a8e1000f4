package services

import (
	"context"
	"time"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

// CreateTaskInput carries the creation payload; optional fields stay nil.
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       task.Priority
	ProjectID      ids.ProjectID
	ParentTaskID   *ids.TaskID
	DueDate        *time.Time
	EstimatedHours *int
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (task.Snapshot, error)
	Get(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
	ListByProject(ctx context.Context, projectID ids.ProjectID) ([]task.Snapshot, error)
	ListByAssignee(ctx context.Context, userID ids.UserID) ([]task.Snapshot, error)
	UpdateDetails(ctx context.Context, id ids.TaskID, title, description string, estimatedHours *int) (task.Snapshot, error)
	SetDueDate(ctx context.Context, id ids.TaskID, dueDate *time.Time) (task.Snapshot, error)
	ChangePriority(ctx context.Context, id ids.TaskID, priority task.Priority) (task.Snapshot, error)
	Start(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
	SubmitForReview(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
	Complete(ctx context.Context, id ids.TaskID, actualHours *int) (task.Snapshot, error)
	Cancel(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
	Reopen(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
	AssignTo(ctx context.Context, id ids.TaskID, assigneeID ids.UserID) (task.Snapshot, error)
	Unassign(ctx context.Context, id ids.TaskID) (task.Snapshot, error)
}

type taskService struct {
	log        *logger.Logger
	tasks      *dataagg.TaskStore
	projects   *dataagg.ProjectStore
	users      *dataagg.UserStore
	dispatcher *eventDispatcher
}

func NewTaskService(log *logger.Logger, tasks *dataagg.TaskStore, projects *dataagg.ProjectStore, users *dataagg.UserStore, b bus.Bus, metrics *observability.Metrics) TaskService {
	return &taskService{
		log:        log.With("service", "TaskService"),
		tasks:      tasks,
		projects:   projects,
		users:      users,
		dispatcher: newEventDispatcher(log, b, metrics),
	}
}

// Create adds a task to an existing project. When a parent is named the
// parent aggregate adopts the new task first, which enforces the nesting
// rules; only the new row is persisted since the parent row itself does not
// change.
func (ts *taskService) Create(ctx context.Context, in CreateTaskInput) (task.Snapshot, error) {
	const op = "task.create"
	actor, err := loadActor(ctx, ts.users)
	if err != nil {
		return task.Snapshot{}, err
	}
	if _, err := ts.projects.Load(ctx, in.ProjectID); err != nil {
		return task.Snapshot{}, err
	}
	t, err := task.New(in.Title, in.Description, in.Priority, in.ProjectID, in.ParentTaskID, in.DueDate, in.EstimatedHours, actor)
	if err != nil {
		return task.Snapshot{}, dataagg.MapError(op, err)
	}
	if in.ParentTaskID != nil {
		parentLoaded, err := ts.tasks.Load(ctx, *in.ParentTaskID)
		if err != nil {
			return task.Snapshot{}, err
		}
		parent := task.FromSnapshot(parentLoaded.Snapshot)
		if err := parent.AddSubtask(t); err != nil {
			return task.Snapshot{}, dataagg.MapError(op, err)
		}
	}
	snap := t.Snapshot()
	if err := ts.tasks.Create(ctx, snap); err != nil {
		return task.Snapshot{}, err
	}
	ts.dispatcher.dispatch(ctx, t)
	ts.log.Info("task created", "task_id", snap.ID, "project_id", in.ProjectID)
	return snap, nil
}

func (ts *taskService) Get(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	loaded, err := ts.tasks.Load(ctx, id)
	if err != nil {
		return task.Snapshot{}, err
	}
	return loaded.Snapshot, nil
}

func (ts *taskService) ListByProject(ctx context.Context, projectID ids.ProjectID) ([]task.Snapshot, error) {
	return ts.tasks.ListByProject(ctx, projectID)
}

func (ts *taskService) ListByAssignee(ctx context.Context, userID ids.UserID) ([]task.Snapshot, error) {
	return ts.tasks.ListByAssignee(ctx, userID)
}

func (ts *taskService) UpdateDetails(ctx context.Context, id ids.TaskID, title, description string, estimatedHours *int) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.update_details", id, func(t *task.Task, actor *user.User) error {
		return t.UpdateDetails(title, description, estimatedHours, actor)
	})
}

func (ts *taskService) SetDueDate(ctx context.Context, id ids.TaskID, dueDate *time.Time) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.set_due_date", id, func(t *task.Task, actor *user.User) error {
		return t.SetDueDate(dueDate, actor)
	})
}

func (ts *taskService) ChangePriority(ctx context.Context, id ids.TaskID, priority task.Priority) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.change_priority", id, func(t *task.Task, actor *user.User) error {
		return t.ChangePriority(priority, actor)
	})
}

func (ts *taskService) Start(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.start", id, func(t *task.Task, actor *user.User) error {
		return t.Start(actor)
	})
}

func (ts *taskService) SubmitForReview(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.submit_for_review", id, func(t *task.Task, actor *user.User) error {
		return t.SubmitForReview(actor)
	})
}

func (ts *taskService) Complete(ctx context.Context, id ids.TaskID, actualHours *int) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.complete", id, func(t *task.Task, actor *user.User) error {
		return t.Complete(actor, actualHours)
	})
}

// Cancel cascades to non-terminal subtasks; the store writes the subtask rows
// in the same transaction as the root.
func (ts *taskService) Cancel(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.cancel", id, func(t *task.Task, actor *user.User) error {
		return t.Cancel(actor)
	})
}

func (ts *taskService) Reopen(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.reopen", id, func(t *task.Task, actor *user.User) error {
		return t.Reopen(actor)
	})
}

// AssignTo loads the assignee as a full aggregate so assignability rules see
// their current status.
func (ts *taskService) AssignTo(ctx context.Context, id ids.TaskID, assigneeID ids.UserID) (task.Snapshot, error) {
	assignee, err := ts.users.Load(ctx, assigneeID)
	if err != nil {
		return task.Snapshot{}, err
	}
	return ts.mutate(ctx, "task.assign", id, func(t *task.Task, actor *user.User) error {
		return t.AssignTo(user.FromSnapshot(assignee.Snapshot), actor)
	})
}

func (ts *taskService) Unassign(ctx context.Context, id ids.TaskID) (task.Snapshot, error) {
	return ts.mutate(ctx, "task.unassign", id, func(t *task.Task, actor *user.User) error {
		return t.Unassign(actor)
	})
}

func (ts *taskService) mutate(ctx context.Context, op string, id ids.TaskID, fn func(t *task.Task, actor *user.User) error) (task.Snapshot, error) {
	actor, err := loadActor(ctx, ts.users)
	if err != nil {
		return task.Snapshot{}, err
	}
	loaded, err := ts.tasks.Load(ctx, id)
	if err != nil {
		return task.Snapshot{}, err
	}
	t := task.FromSnapshot(loaded.Snapshot)
	if err := fn(t, actor); err != nil {
		return task.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := t.Snapshot()
	if err := ts.tasks.Save(ctx, snap, loaded.Version); err != nil {
		return task.Snapshot{}, err
	}
	ts.dispatcher.dispatch(ctx, t)
	return snap, nil
}
