package host

// OrderedRecord is a Record that remembers the order its keys were set in.
type OrderedRecord struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from parallel key and value slices. Later
// duplicates overwrite earlier values but keep the first position.
func NewRecord(keys []string, values []any) *OrderedRecord {
	r := &OrderedRecord{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.Set(k, v)
	}
	return r
}

// Set stores v under key.
func (r *OrderedRecord) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Keys returns the keys in insertion order.
func (r *OrderedRecord) Keys() []string { return r.keys }

// Get returns the value stored under name.
func (r *OrderedRecord) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of keys.
func (r *OrderedRecord) Len() int { return len(r.keys) }

// BasicResult is a plain Result value.
type BasicResult struct {
	Message  string
	Failed   bool
	Rows     []Record
	HasRows  bool
	Metadata map[string]any
}

// Error implements Result.
func (r *BasicResult) Error() (string, bool) { return r.Message, r.Failed }

// Records implements Result.
func (r *BasicResult) Records() ([]Record, bool) { return r.Rows, r.HasRows }

// Meta implements Result.
func (r *BasicResult) Meta() map[string]any { return r.Metadata }

// Failure returns a result carrying only an error message.
func Failure(msg string) *BasicResult {
	return &BasicResult{Message: msg, Failed: true}
}

// Success returns a result with rows and an affected row count.
func Success(rows []Record, changes int64) *BasicResult {
	return &BasicResult{
		Rows:     rows,
		HasRows:  true,
		Metadata: map[string]any{MetaChanges: float64(changes)},
	}
}
