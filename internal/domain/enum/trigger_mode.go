package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TriggerMode controls how a promotion's trigger product set is evaluated.
// Any: a single qualifying line is enough, multiplier scales with its
// quantity. All: every trigger product must qualify, multiplier stays 1.
type TriggerMode int

const (
	TriggerModeAny TriggerMode = 0
	TriggerModeAll TriggerMode = 1
)

func (m TriggerMode) String() string {
	names := [...]string{"Any", "All"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Any"
	}
	return names[m]
}

func (m TriggerMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *TriggerMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = TriggerMode(i)
		return nil
	}
	switch str {
	case "Any":
		*m = TriggerModeAny
	case "All":
		*m = TriggerModeAll
	}
	return nil
}

func (m TriggerMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *TriggerMode) Scan(value interface{}) error {
	if value == nil {
		*m = TriggerModeAny
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = TriggerMode(v)
	case int:
		*m = TriggerMode(v)
	}
	return nil
}
