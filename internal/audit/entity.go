// AngelaMos | 2026
// entity.go

package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionRestore Action = "RESTORE"
	ActionLogin   Action = "LOGIN"
	ActionLogout  Action = "LOGOUT"
)

var actions = map[Action]struct{}{
	ActionCreate:  {},
	ActionUpdate:  {},
	ActionDelete:  {},
	ActionRestore: {},
	ActionLogin:   {},
	ActionLogout:  {},
}

func (a Action) Valid() bool {
	_, ok := actions[a]
	return ok
}

// ParseAction accepts any letter case.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.Valid()
}

// Details is the free-form JSONB payload attached to an entry.
type Details map[string]any

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal audit details: %w", err)
	}
	return string(b), nil
}

func (d *Details) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Details{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan audit details: unsupported type %T", src)
	}

	out := Details{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan audit details: %w", err)
		}
	}
	*d = out
	return nil
}

type Entry struct {
	ID        int64     `db:"id"`
	UserID    *string   `db:"user_id"`
	UserEmail string    `db:"user_email"`
	Action    Action    `db:"action"`
	ProductID *string   `db:"product_id"`
	Details   Details   `db:"details"`
	Timestamp time.Time `db:"timestamp"`
}

// Actor is the authenticated caller an entry is attributed to.
type Actor struct {
	ID    string
	Email string
}

// Record is the input to Service.Record.
type Record struct {
	Actor     Actor
	Action    Action
	ProductID string
	Details   Details
}

type Summary struct {
	Total    int            `json:"total"`
	ByAction map[string]int `json:"byAction"`
	ByUser   map[string]int `json:"byUser"`
}
