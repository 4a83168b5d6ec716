package defender

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// FreshnessWindow is the maximum age of a scan before its Defender is stale.
const FreshnessWindow = 24 * time.Hour

var scanTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
}

// ParseScanTime parses a console scan timestamp. The offset is mandatory.
func ParseScanTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, errors.Mark(errors.New("scan time is empty"), ErrTimestampParse)
	}

	var firstErr error
	for _, layout := range scanTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, errors.Mark(errors.Wrapf(firstErr, "parse scan time %q", s), ErrTimestampParse)
}

// IsFresh reports whether scanTime lies less than threshold before now.
// A scan exactly threshold old is not fresh; a scan in the future is.
func IsFresh(scanTime string, now time.Time, threshold time.Duration) (bool, error) {
	t, err := ParseScanTime(scanTime)
	if err != nil {
		return false, err
	}
	return now.Sub(t) < threshold, nil
}
