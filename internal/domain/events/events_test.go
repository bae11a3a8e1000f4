package events_test

import (
	"encoding/json"
	"testing"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
)

// Published payloads carry ids as UUID strings; consumers on the bus parse
// them back with uuid.Parse.
func TestEventPayloadRendersIDsAsStrings(t *testing.T) {
	actor := ids.NewUserID()
	taskID := ids.NewTaskID()
	assignee := ids.NewUserID()

	ev := events.TaskAssigned{
		Base:       events.NewBase(actor),
		TaskID:     taskID,
		AssigneeID: assignee,
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var payload struct {
		ActorID    string `json:"actor_id"`
		TaskID     string `json:"task_id"`
		AssigneeID string `json:"assignee_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("id fields must be JSON strings: %v (payload %s)", err, raw)
	}
	if payload.ActorID != actor.String() {
		t.Fatalf("actor_id: want=%s got=%s", actor, payload.ActorID)
	}
	if payload.TaskID != taskID.String() {
		t.Fatalf("task_id: want=%s got=%s", taskID, payload.TaskID)
	}
	if payload.AssigneeID != assignee.String() {
		t.Fatalf("assignee_id: want=%s got=%s", assignee, payload.AssigneeID)
	}
}

func TestEventPayloadOmitsNilParent(t *testing.T) {
	ev := events.TaskCreated{
		Base:      events.NewBase(ids.NewUserID()),
		TaskID:    ids.NewTaskID(),
		ProjectID: ids.NewProjectID(),
		Title:     "root task",
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := decoded["parent_task_id"]; present {
		t.Fatalf("nil parent must be omitted: %s", raw)
	}
	if _, ok := decoded["project_id"].(string); !ok {
		t.Fatalf("project_id must be a string: %s", raw)
	}
}
