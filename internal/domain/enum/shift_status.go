package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShiftStatus represents the lifecycle state of a cash shift.
// Closed is terminal; a closed shift is immutable history.
type ShiftStatus int

const (
	ShiftStatusActive      ShiftStatus = 0
	ShiftStatusReconciling ShiftStatus = 1
	ShiftStatusClosed      ShiftStatus = 2
)

func (s ShiftStatus) String() string {
	names := [...]string{"Active", "Reconciling", "Closed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Active"
	}
	return names[s]
}

func (s ShiftStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ShiftStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ShiftStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = ShiftStatusActive
	case "Reconciling":
		*s = ShiftStatusReconciling
	case "Closed":
		*s = ShiftStatusClosed
	}
	return nil
}

func (s ShiftStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ShiftStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ShiftStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ShiftStatus(v)
	case int:
		*s = ShiftStatus(v)
	}
	return nil
}
