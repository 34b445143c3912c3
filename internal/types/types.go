package types

// SourceItem identifies one candidate media file.
type SourceItem struct {
	Path string
	// Duration is the probed total length in seconds; zero until probed.
	Duration float64
}

// BufferPolicy selects how ClipSpec.Buffer is interpreted.
type BufferPolicy int

const (
	// BufferAbsolute treats Buffer as seconds excluded from each edge.
	BufferAbsolute BufferPolicy = iota
	// BufferFraction treats Buffer as a fraction of the total duration
	// excluded from each edge. Must be in [0, 0.5).
	BufferFraction
)

func (p BufferPolicy) String() string {
	switch p {
	case BufferAbsolute:
		return "seconds"
	case BufferFraction:
		return "fraction"
	default:
		return "unknown"
	}
}

// ClipSpec is the requested clip shape. Exactly one buffer policy is
// active per invocation.
type ClipSpec struct {
	Duration float64 // seconds
	Policy   BufferPolicy
	Buffer   float64
}

// TimeWindow is a resolved extraction interval, in seconds from the
// start of the source. End - Start equals the requested clip duration.
type TimeWindow struct {
	Start float64
	End   float64
}

const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ItemResult records the outcome for one item of a batch.
type ItemResult struct {
	Path   string
	Status string
	Reason string // empty for processed items
}

// BatchResult accumulates per-item outcomes over a single run. It is
// never persisted; every run starts from zero.
type BatchResult struct {
	Items []ItemResult
	// Clamped is set when the requested count exceeded the number of
	// available candidates.
	Clamped bool
}

func (r *BatchResult) Record(path, status, reason string) {
	r.Items = append(r.Items, ItemResult{Path: path, Status: status, Reason: reason})
}

func (r *BatchResult) Processed() int { return r.count(StatusProcessed) }
func (r *BatchResult) Failed() int    { return r.count(StatusFailed) }
func (r *BatchResult) Skipped() int   { return r.count(StatusSkipped) }

// SkippedItems returns the skipped entries in processing order.
func (r *BatchResult) SkippedItems() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Status == StatusSkipped {
			out = append(out, it)
		}
	}
	return out
}

func (r *BatchResult) count(status string) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}
