package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUIDSet is an ordered set of user IDs persisted as a JSONB array.
// Chat read receipts use it; Add is idempotent so repeated mark-read
// calls never grow the list.
type UUIDSet []uuid.UUID

// Contains reports whether id is already in the set.
func (s UUIDSet) Contains(id uuid.UUID) bool {
	for _, existing := range s {
		if existing == id {
			return true
		}
	}
	return false
}

// Add appends id when absent and reports whether the set changed.
func (s *UUIDSet) Add(id uuid.UUID) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Value marshals the set into JSON for Postgres.
func (s UUIDSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the set.
func (s *UUIDSet) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("uuid set: unsupported scan type %T", value)
	}

	result := UUIDSet{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
