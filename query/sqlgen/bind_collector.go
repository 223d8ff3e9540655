package sqlgen

import "github.com/kiurchv/go-d1/value"

// Bind is one encoded parameter together with its declared type.
type Bind struct {
	Value value.Value
	Type  value.SQLType
}

// BindCollector gathers encoded parameters in placeholder order.
type BindCollector struct {
	binds []Bind
}

// Push encodes v as t and appends it. On failure nothing is appended and
// the returned *SerializationError wraps the codec error.
func (c *BindCollector) Push(t value.SQLType, v any) error {
	encoded, err := value.Encode(t, v)
	if err != nil {
		return &SerializationError{Index: len(c.binds), Err: err}
	}
	c.binds = append(c.binds, Bind{Value: encoded, Type: t})
	return nil
}

// Binds returns the collected parameters in push order.
func (c *BindCollector) Binds() []Bind {
	return c.binds
}

// Len returns the number of collected parameters.
func (c *BindCollector) Len() int {
	return len(c.binds)
}

// Values returns only the encoded values, ready to hand to the host.
func (c *BindCollector) Values() []value.Value {
	return bindValues(c.binds)
}

func bindValues(binds []Bind) []value.Value {
	values := make([]value.Value, len(binds))
	for i, b := range binds {
		values[i] = b.Value
	}
	return values
}
