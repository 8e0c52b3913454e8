// AngelaMos | 2026
// dto.go

package audit

import (
	"time"
)

const (
	DefaultPageLimit   = 50
	MaxPageLimit       = 100
	DefaultRecentLimit = 10
)

type Filters struct {
	UserID    string
	ProductID string
	Action    Action
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

func (f *Filters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.Limit
}

type EntryResponse struct {
	ID        int64          `json:"id"`
	UserID    *string        `json:"user_id"`
	UserEmail string         `json:"user_email"`
	Action    Action         `json:"action"`
	ProductID *string        `json:"product_id"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
}

type PurgeResponse struct {
	Deleted int64     `json:"deleted"`
	Days    int       `json:"days"`
	Cutoff  time.Time `json:"cutoff"`
}

func ToEntryResponse(e *Entry) EntryResponse {
	details := e.Details
	if details == nil {
		details = Details{}
	}
	return EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		UserEmail: e.UserEmail,
		Action:    e.Action,
		ProductID: e.ProductID,
		Details:   details,
		Timestamp: e.Timestamp,
	}
}

func ToEntryResponseList(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return out
}
