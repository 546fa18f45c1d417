package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/tasks-api/domain/user"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts raw input to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown task status %q", raw)
	}
	return s, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"not null;type:text"`
	Description *string `gorm:"type:text"`
	Status      Status  `gorm:"not null;type:varchar(20);default:pending;index"`
	CreatedAt   time.Time
	CompletedAt *time.Time
	OwnerID     uint `gorm:"not null;index"`

	// Owner only declares the foreign key; it is never loaded.
	Owner *user.User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// NullableString is an update field that tells an absent key apart from an
// explicit null. Set is true whenever the key was present.
type NullableString struct {
	Set   bool
	Value *string
}

// SetString returns a present field holding s.
func SetString(s string) NullableString {
	return NullableString{Set: true, Value: &s}
}

// SetNull returns a present field holding null.
func SetNull() NullableString {
	return NullableString{Set: true}
}

// UnmarshalJSON is only called for a present key, null included.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MarshalJSON writes the value or null. Pair it with omitzero so an unset
// field stays absent.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Patch holds the fields of a partial update. Nil Title and Status and an
// unset Description are left untouched; a Description set to null clears it.
type Patch struct {
	Title       *string        `json:"title,omitempty"`
	Description NullableString `json:"description,omitzero"`
	Status      *Status        `json:"status,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && !p.Description.Set && p.Status == nil
}

// Filter narrows a task listing.
type Filter struct {
	Status *Status `json:"status,omitempty"`
	Skip   int     `json:"skip"`
	Limit  int     `json:"limit"`
}
