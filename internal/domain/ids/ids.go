// Package ids defines the strongly typed identifiers used across aggregates.
// Each wraps a random UUID; the types are deliberately not interchangeable so
// a TaskID can never be handed to an API expecting a ProjectID.
package ids

import "github.com/google/uuid"

type UserID uuid.UUID

func NewUserID() UserID             { return UserID(uuid.New()) }
func UserIDFrom(u uuid.UUID) UserID { return UserID(u) }

func (id UserID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id UserID) String() string  { return uuid.UUID(id).String() }
func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the id in canonical UUID form so JSON payloads carry
// strings, not byte arrays.
func (id UserID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *UserID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	return UserID(u), err
}

type TeamID uuid.UUID

func NewTeamID() TeamID             { return TeamID(uuid.New()) }
func TeamIDFrom(u uuid.UUID) TeamID { return TeamID(u) }

func (id TeamID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id TeamID) String() string  { return uuid.UUID(id).String() }
func (id TeamID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

func (id TeamID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *TeamID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func ParseTeamID(s string) (TeamID, error) {
	u, err := uuid.Parse(s)
	return TeamID(u), err
}

type ProjectID uuid.UUID

func NewProjectID() ProjectID             { return ProjectID(uuid.New()) }
func ProjectIDFrom(u uuid.UUID) ProjectID { return ProjectID(u) }

func (id ProjectID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id ProjectID) String() string  { return uuid.UUID(id).String() }
func (id ProjectID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ProjectID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *ProjectID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func ParseProjectID(s string) (ProjectID, error) {
	u, err := uuid.Parse(s)
	return ProjectID(u), err
}

type TaskID uuid.UUID

func NewTaskID() TaskID             { return TaskID(uuid.New()) }
func TaskIDFrom(u uuid.UUID) TaskID { return TaskID(u) }

func (id TaskID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id TaskID) String() string  { return uuid.UUID(id).String() }
func (id TaskID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }

func (id TaskID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id *TaskID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func ParseTaskID(s string) (TaskID, error) {
	u, err := uuid.Parse(s)
	return TaskID(u), err
}
