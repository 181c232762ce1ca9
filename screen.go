package probkit

import "fmt"

// Status classifies a screened item.
type Status int

const (
	// StatusUnique means the item had not been seen and was added.
	StatusUnique Status = iota
	// StatusDuplicate means the filter already (probably) held the item.
	StatusDuplicate
	// StatusError means the item was rejected; see Result.Err.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnique:
		return "unique"
	case StatusDuplicate:
		return "duplicate"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the classification of one input item.
type Result struct {
	Item   string
	Status Status
	Err    error // set only when Status is StatusError
}

// Tag renders the result the way it is reported to users: "unique",
// "duplicate" or "error: <detail>".
func (r Result) Tag() string {
	if r.Status == StatusError {
		return fmt.Sprintf("error: %v", r.Err)
	}
	return r.Status.String()
}

// Results holds one Result per input item, in input order.
type Results []Result

// Tags returns the item to tag mapping. When an item occurs more than once
// in the input the last classification wins.
func (rs Results) Tags() map[string]string {
	tags := make(map[string]string, len(rs))
	for _, r := range rs {
		tags[r.Item] = r.Tag()
	}
	return tags
}

// Counts tallies the results by status.
func (rs Results) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, r := range rs {
		counts[r.Status]++
	}
	return counts
}

// Screen classifies each item as unique or duplicate against f, in order.
// Unique items are added to f before the next item is examined, so repeats
// within items are reported as duplicates. An invalid item is recorded as
// StatusError and screening continues.
//
// f is mutated and keeps every newly seen item for later calls.
func Screen(f *Filter, items []string) (Results, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: filter must not be nil", ErrTypeMismatch)
	}

	results := make(Results, 0, len(items))
	for _, item := range items {
		results = append(results, screenOne(f, item))
	}
	return results, nil
}

func screenOne(f *Filter, item string) Result {
	seen, err := f.Contains(item)
	if err != nil {
		return Result{Item: item, Status: StatusError, Err: err}
	}
	if seen {
		return Result{Item: item, Status: StatusDuplicate}
	}
	if err := f.Add(item); err != nil {
		return Result{Item: item, Status: StatusError, Err: err}
	}
	return Result{Item: item, Status: StatusUnique}
}
