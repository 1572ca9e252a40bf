package strokefont

// Phase names a coarse stage of an export.
type Phase string

// Export phases, in the order they are reported.
const (
	PhaseCollect Phase = "data collection"
	PhaseOutline Phase = "outline generation"
	PhaseCompile Phase = "font compilation"
	PhaseEncode  Phase = "binary encoding"

	// PhaseDone is reported once at the end of every export, successful or
	// not, so that hosts can clear their progress indicator.
	PhaseDone Phase = "done"
)

// ProgressFunc receives progress events. completed and total count
// characters; total is zero before the character set is known.
// It runs synchronously on the exporting goroutine.
type ProgressFunc func(completed, total int, phase Phase)
