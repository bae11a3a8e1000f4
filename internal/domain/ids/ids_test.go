package ids

import (
	"encoding/json"
	"testing"
)

func TestNewIDsAreNeverZero(t *testing.T) {
	if NewUserID().IsZero() {
		t.Fatalf("NewUserID produced the zero value")
	}
	if NewTeamID().IsZero() {
		t.Fatalf("NewTeamID produced the zero value")
	}
	if NewProjectID().IsZero() {
		t.Fatalf("NewProjectID produced the zero value")
	}
	if NewTaskID().IsZero() {
		t.Fatalf("NewTaskID produced the zero value")
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := NewTaskID()
	parsed, err := ParseTaskID(id.String())
	if err != nil {
		t.Fatalf("ParseTaskID: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, id)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseUserID("not-a-uuid"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

// IDs must serialize as canonical UUID strings, not as the underlying byte
// array.
func TestJSONRoundTrip(t *testing.T) {
	id := NewTaskID()
	raw, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `"` + id.String() + `"`
	if string(raw) != want {
		t.Fatalf("encoding: want=%s got=%s", want, raw)
	}

	var back TaskID
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != id {
		t.Fatalf("round trip mismatch: %s vs %s", back, id)
	}
}

func TestJSONRoundTripAllTypes(t *testing.T) {
	payload := struct {
		User    UserID    `json:"user"`
		Team    TeamID    `json:"team"`
		Project ProjectID `json:"project"`
		Task    TaskID    `json:"task"`
	}{NewUserID(), NewTeamID(), NewProjectID(), NewTaskID()}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("each field must decode as a string: %v", err)
	}
	if decoded["user"] != payload.User.String() ||
		decoded["team"] != payload.Team.String() ||
		decoded["project"] != payload.Project.String() ||
		decoded["task"] != payload.Task.String() {
		t.Fatalf("field encoding mismatch: %s", raw)
	}
}
