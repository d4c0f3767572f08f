package models

import "encoding/json"

// Optional distinguishes the three states of a nullable field in a
// patch payload: absent (no change), explicit null (clear), and a
// concrete value (set).
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked when the field is present in the
// payload, which is what makes the absent state observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON round-trips the value; an unset or null Optional encodes
// as JSON null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
