package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus marks whether an order was fully paid at settlement or left
// an outstanding debt balance.
type PaymentStatus int

const (
	PaymentStatusPaid    PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
)

func (s PaymentStatus) String() string {
	names := [...]string{"Paid", "Partial"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Paid"
	}
	return names[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Paid":
		*s = PaymentStatusPaid
	case "Partial":
		*s = PaymentStatusPartial
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
