package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TaskID is an opaque remote identifier. Stores may encode ids as JSON strings
// or numbers; both decode to the same string form.
type TaskID string

func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

func (id TaskID) String() string { return string(id) }

type Task struct {
	ID       TaskID `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

// CategoryOf is the grouping key used by task lists.
func CategoryOf(t Task) string { return t.Category }


// CheckedInput is the query value the remote store expects for a toggle request.
func CheckedInput(checked bool) string {
	if checked {
		return "1"
	}
	return "0"
}
