package aggregates

import (
	"context"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/platform/dbctx"
)

type LoadedTask struct {
	Snapshot task.Snapshot
	Version  int
}

type TaskStore struct {
	deps  BaseDeps
	tasks repos.TaskRepo
}

func NewTaskStore(deps BaseDeps, tasks repos.TaskRepo) *TaskStore {
	return &TaskStore{deps: deps.withDefaults(), tasks: tasks}
}

// Load fetches the task row plus its direct subtask rows. Nesting is one
// level deep, so one child query rebuilds the whole aggregate.
func (s *TaskStore) Load(ctx context.Context, id ids.TaskID) (*LoadedTask, error) {
	const op = "task.load"
	rec, err := s.tasks.GetByID(ctx, nil, id.UUID())
	if err != nil {
		return nil, MapError(op, err)
	}
	snap := rec.ToSnapshot()
	children, err := s.tasks.ListSubtasks(ctx, nil, rec.ID)
	if err != nil {
		return nil, MapError(op, err)
	}
	for _, child := range children {
		snap.Subtasks = append(snap.Subtasks, child.ToSnapshot())
	}
	return &LoadedTask{Snapshot: snap, Version: rec.Version}, nil
}

// ListByProject returns flat snapshots of every task row in the project,
// subtask rows included.
func (s *TaskStore) ListByProject(ctx context.Context, projectID ids.ProjectID) ([]task.Snapshot, error) {
	rows, err := s.tasks.ListByProject(ctx, nil, projectID.UUID())
	if err != nil {
		return nil, MapError("task.list_by_project", err)
	}
	out := make([]task.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToSnapshot())
	}
	return out, nil
}

func (s *TaskStore) ListByAssignee(ctx context.Context, userID ids.UserID) ([]task.Snapshot, error) {
	rows, err := s.tasks.ListByAssignee(ctx, nil, userID.UUID())
	if err != nil {
		return nil, MapError("task.list_by_assignee", err)
	}
	out := make([]task.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToSnapshot())
	}
	return out, nil
}

func (s *TaskStore) Create(ctx context.Context, snap task.Snapshot) error {
	return ExecuteWrite(ctx, s.deps, "task.create", func(dbc dbctx.Context) error {
		rec := records.TaskRecordFrom(snap, 0)
		return s.tasks.Create(dbc.Ctx, dbc.Tx, &rec)
	})
}

// activeTaskStatuses are the non-terminal states a cancel cascade may overwrite.
var activeTaskStatuses = []string{
	task.StatusToDo.String(),
	task.StatusInProgress.String(),
	task.StatusInReview.String(),
}

// Save persists the root row under the version guard and writes the subtask
// rows in the same transaction so a cancel cascade commits atomically.
func (s *TaskStore) Save(ctx context.Context, snap task.Snapshot, expectedVersion int) error {
	return ExecuteWrite(ctx, s.deps, "task.save", func(dbc dbctx.Context) error {
		table := records.TaskRecord{}.TableName()
		ok, err := s.deps.CASGuard.UpdateByVersion(dbc, table, snap.ID.UUID(), expectedVersion, taskUpdates(snap))
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "task was modified concurrently"); err != nil {
			return err
		}
		// Cancelling is the only behavior that rewrites child rows. The write
		// goes through the status guard so a subtask that concurrently reached
		// a terminal state keeps it.
		for _, sub := range snap.Subtasks {
			if sub.Status != task.StatusCancelled {
				continue
			}
			if _, err := s.deps.CASGuard.UpdateByStatus(dbc, table, sub.ID.UUID(), activeTaskStatuses, taskUpdates(sub)); err != nil {
				return err
			}
		}
		return nil
	})
}

func taskUpdates(snap task.Snapshot) map[string]any {
	var assigned any
	if snap.AssignedUserID != nil {
		assigned = snap.AssignedUserID.UUID()
	}
	updates := map[string]any{
		"title":            snap.Title,
		"description":      snap.Description,
		"status":           snap.Status.String(),
		"priority":         snap.Priority.String(),
		"assigned_user_id": assigned,
		"estimated_hours":  snap.EstimatedHours,
		"actual_hours":     snap.ActualHours,
		"due_date":         snap.DueDate,
		"started_at":       snap.StartedAt,
		"completed_at":     snap.CompletedAt,
		"updated_at":       snap.UpdatedAt,
	}
	if snap.UpdatedBy != nil {
		updates["updated_by"] = snap.UpdatedBy.UUID()
	}
	return updates
}
