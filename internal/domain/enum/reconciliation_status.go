package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReconciliationStatus classifies the counted-vs-expected cash comparison at
// shift close. It stays Pending until an operator explicitly confirms;
// computing a discrepancy never finalizes the shift on its own.
type ReconciliationStatus int

const (
	ReconciliationPending ReconciliationStatus = 0
	ReconciliationMatched ReconciliationStatus = 1
	ReconciliationOver    ReconciliationStatus = 2
	ReconciliationShort   ReconciliationStatus = 3
)

func (s ReconciliationStatus) String() string {
	names := [...]string{"Pending", "Matched", "Over", "Short"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

func (s ReconciliationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReconciliationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReconciliationStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ReconciliationPending
	case "Matched":
		*s = ReconciliationMatched
	case "Over":
		*s = ReconciliationOver
	case "Short":
		*s = ReconciliationShort
	}
	return nil
}

func (s ReconciliationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReconciliationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReconciliationPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReconciliationStatus(v)
	case int:
		*s = ReconciliationStatus(v)
	}
	return nil
}
