package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status int

// runs are inserted as "extracting" and move forward from there
const (
	StatusUnknown Status = iota
	StatusExtracting
	StatusGenerating
	StatusCompleted
	StatusFailed
)

type Run struct {
	ID uuid.UUID `json:"id" db:"id"`

	Status Status `json:"status" db:"status"`

	FileName string `json:"file_name" db:"file_name"`

	Model string `json:"model" db:"model"`

	Insights *string `json:"insights,omitempty" db:"insights"`

	ErrorMessage *string `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s Status) String() string {
	switch s {
	case StatusExtracting:
		return "extracting"
	case StatusGenerating:
		return "generating"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) Status {
	switch s {
	case "extracting":
		return StatusExtracting
	case "generating":
		return StatusGenerating
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}
