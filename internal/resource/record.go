package resource

import (
	"encoding/json"
	"fmt"
)

// Record is a loosely typed resource: an id, a status and whatever else the API returned.
type Record struct {
	ID     ID
	Status Status
	Fields Fields
}

func (r Record) ResourceID() ID {
	return r.ID
}

func (r Record) ResourceStatus() Status {
	return r.Status
}

// Get returns a field value, or nil if the field is not set.
func (r Record) Get(key string) any {
	return r.Fields[key]
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	out["status"] = r.Status
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	*r = Record{Fields: make(Fields, len(raw))}
	for k, v := range raw {
		switch k {
		case "id":
			if err := json.Unmarshal(v, &r.ID); err != nil {
				return err
			}
		case "status":
			if err := json.Unmarshal(v, &r.Status); err != nil {
				return fmt.Errorf("invalid status: %w", err)
			}
		default:
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				return fmt.Errorf("invalid field %q: %w", k, err)
			}
			r.Fields[k] = value
		}
	}
	return nil
}
