package defender

import (
	"time"

	"github.com/cockroachdb/errors"
)

type options struct {
	threshold      time.Duration
	skipIncomplete bool
}

type Option func(*options)

// WithThreshold overrides FreshnessWindow.
func WithThreshold(d time.Duration) Option {
	return func(o *options) { o.threshold = d }
}

// WithSkipIncomplete excludes agents that fail required-field validation
// instead of aborting. Their hostnames are listed in Report.Skipped.
// Malformed timestamps still abort.
func WithSkipIncomplete(skip bool) Option {
	return func(o *options) { o.skipIncomplete = skip }
}

// Evaluate checks the image and container scan freshness of already filtered
// agents. On error no report is returned.
func Evaluate(agents []Agent, now time.Time, opts ...Option) (*Report, error) {
	o := options{threshold: FreshnessWindow}
	for _, opt := range opts {
		opt(&o)
	}

	report := &Report{
		Details:        make([]Evaluated, 0, len(agents)),
		StaleHostnames: []string{},
	}

	for _, a := range agents {
		if err := Validate(a); err != nil {
			if o.skipIncomplete && errors.Is(err, ErrMissingField) {
				report.Skipped = append(report.Skipped, a.Hostname)
				continue
			}
			return nil, err
		}

		imageFresh, err := IsFresh(a.Status.Image.ScanTime, now, o.threshold)
		if err != nil {
			return nil, errors.Wrapf(err, "defender %s: image scan", a.Hostname)
		}
		containerFresh, err := IsFresh(a.Status.Container.ScanTime, now, o.threshold)
		if err != nil {
			return nil, errors.Wrapf(err, "defender %s: container scan", a.Hostname)
		}

		ev := Evaluated{
			Hostname:       a.Hostname,
			Version:        a.Version,
			Image:          a.Status.Image.ScanTime,
			ImageFresh:     imageFresh,
			Container:      a.Status.Container.ScanTime,
			ContainerFresh: containerFresh,
		}
		if ev.Stale() {
			report.StaleHostnames = append(report.StaleHostnames, ev.Hostname)
		}
		report.Details = append(report.Details, ev)
	}

	return report, nil
}

// Check filters raw console records and evaluates the remainder.
func Check(raw []Agent, now time.Time, opts ...Option) (*Report, error) {
	return Evaluate(Filter(raw), now, opts...)
}
