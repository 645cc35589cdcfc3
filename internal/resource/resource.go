package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the server assigned identity of a resource.
// The API returns either numeric or string identifiers, both decode into an ID.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %s", data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits canonical integer ids as JSON numbers so they round-trip the way the API sent them.
// Anything else, "007" or "+5" included, stays a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Status is a value from the closed status set of a resource kind.
type Status string

func (s Status) String() string {
	return string(s)
}

// Fields is an opaque bag of resource fields. The store never looks inside.
type Fields map[string]any

// Clone returns a shallow copy of the fields.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Resource is the capability every managed item exposes to the store.
type Resource interface {
	ResourceID() ID
	ResourceStatus() Status
}
