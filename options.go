package strokefont

import (
	"time"

	"github.com/gogpu/strokefont/internal/stroke"
)

// ExportOption configures an Exporter.
// Use functional options to customize export behavior.
//
// Example:
//
//	// Default settings
//	ex := strokefont.NewExporter()
//
//	// Finer curves and a progress callback
//	ex := strokefont.NewExporter(
//		strokefont.WithTolerance(0.0005),
//		strokefont.WithProgress(func(done, total int, phase strokefont.Phase) {
//			fmt.Printf("%s %d/%d\n", phase, done, total)
//		}),
//	)
type ExportOption func(*exportOptions)

// exportOptions holds optional configuration for an Exporter.
type exportOptions struct {
	tolerance float64
	epsilon   float64
	progress  ProgressFunc
	delivery  Delivery
	timestamp time.Time
	verify    bool
}

// defaultOptions returns the default export options.
func defaultOptions() exportOptions {
	return exportOptions{
		tolerance: stroke.DefaultTolerance,
		epsilon:   stroke.DefaultEpsilon,
		verify:    true,
	}
}

func newOptions(opts []ExportOption) exportOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTolerance sets the curve flattening tolerance in box-relative units.
// The same tolerance bounds the chord error of round caps.
// Non-positive values are ignored.
func WithTolerance(tolerance float64) ExportOption {
	return func(o *exportOptions) {
		if tolerance > 0 {
			o.tolerance = tolerance
		}
	}
}

// WithSimplifyEpsilon sets the Douglas-Peucker epsilon applied to offset
// rails and closed outlines. Zero disables simplification; negative values
// are ignored.
func WithSimplifyEpsilon(eps float64) ExportOption {
	return func(o *exportOptions) {
		if eps >= 0 {
			o.epsilon = eps
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) ExportOption {
	return func(o *exportOptions) {
		o.progress = fn
	}
}

// WithDelivery sets where Run hands the finished font.
// Export never calls the delivery.
func WithDelivery(d Delivery) ExportOption {
	return func(o *exportOptions) {
		o.delivery = d
	}
}

// WithTimestamp fixes the created/modified dates written to the head table.
// Without it the zero time is used, which keeps output byte-for-byte
// reproducible.
func WithTimestamp(t time.Time) ExportOption {
	return func(o *exportOptions) {
		o.timestamp = t
	}
}

// WithVerification enables or disables re-parsing the encoded font before it
// is returned. Verification is on by default.
func WithVerification(enabled bool) ExportOption {
	return func(o *exportOptions) {
		o.verify = enabled
	}
}
