package cardinality

// ExactCounter counts distinct keys exactly. Memory grows with the number
// of distinct keys.
type ExactCounter struct {
	seen map[string]struct{}
}

// NewExactCounter creates an empty counter.
func NewExactCounter() *ExactCounter {
	return &ExactCounter{seen: make(map[string]struct{})}
}

// Add records key.
func (c *ExactCounter) Add(key []byte) {
	c.seen[string(key)] = struct{}{}
}

// AddString records key.
func (c *ExactCounter) AddString(key string) {
	c.seen[key] = struct{}{}
}

// Count returns the number of distinct keys recorded.
func (c *ExactCounter) Count() uint64 {
	return uint64(len(c.seen))
}
