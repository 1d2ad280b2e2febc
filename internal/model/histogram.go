package model

// StatusCount is one histogram bucket.
type StatusCount struct {
	// Status is the full status string as found on detail pages.
	Status string `json:"status"`

	// Count is the number of entries observed with Status.
	Count int `json:"count"`
}

// StatusHistogram counts entries per full status.
// Iteration order is the order in which each distinct status was first
// observed, not alphabetical and not by frequency.
//
// StatusHistogram is not safe for concurrent use; it is meant to have a
// single writer.
type StatusHistogram struct {
	order  []string
	counts map[string]int
}

// NewStatusHistogram creates an empty histogram.
func NewStatusHistogram() *StatusHistogram {
	return &StatusHistogram{
		order:  make([]string, 0),
		counts: make(map[string]int),
	}
}

// Add increments the count for status by one.
func (h *StatusHistogram) Add(status string) {
	if _, ok := h.counts[status]; !ok {
		h.order = append(h.order, status)
	}
	h.counts[status]++
}

// Count returns the count for status (zero if never observed).
func (h *StatusHistogram) Count(status string) int {
	return h.counts[status]
}

// Statuses returns the distinct statuses in first-observed order.
func (h *StatusHistogram) Statuses() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Entries returns the buckets in first-observed order.
func (h *StatusHistogram) Entries() []StatusCount {
	out := make([]StatusCount, 0, len(h.order))
	for _, status := range h.order {
		out = append(out, StatusCount{Status: status, Count: h.counts[status]})
	}
	return out
}

// Sum returns the total of all counts.
func (h *StatusHistogram) Sum() int {
	sum := 0
	for _, n := range h.counts {
		sum += n
	}
	return sum
}

// Len returns the number of distinct statuses.
func (h *StatusHistogram) Len() int {
	return len(h.order)
}
