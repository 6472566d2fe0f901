package standards

import (
	"errors"
	"fmt"
	"strings"

	"stdsdb/internal/domain"
)

// ErrNoClosestRecord is returned when neither the target nor any fallback
// value matches a candidate.
var ErrNoClosestRecord = errors.New("no closest record")

// IsRecordPresent returns the first record whose field contains value.
func IsRecordPresent(records []domain.Record, field, value string) (domain.Record, bool) {
	for _, r := range records {
		if strings.Contains(r.String(field), value) {
			return r, true
		}
	}
	return nil, false
}

// FindClosest returns the first record whose field contains target. Failing
// that, it walks hierarchy from start to end and returns the first record
// matching an entry. The walk ignores how close an entry is to target.
func FindClosest(records []domain.Record, field, target string, hierarchy []string) (domain.Record, error) {
	if r, ok := IsRecordPresent(records, field, target); ok {
		return r, nil
	}
	for _, alt := range hierarchy {
		if r, ok := IsRecordPresent(records, field, alt); ok {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s ~ %q among %d candidates", ErrNoClosestRecord, field, target, len(records))
}
