// Package lookup finds curve observations by time.
package lookup

import (
	"errors"
	"sort"

	"solana-launchpad/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoCurveData   = errors.New("no curve data available")
	ErrBeforeHistory = errors.New("target precedes the first observation")
)

// PointAt returns the latest observation at or before target (ms).
// points must be ordered by timestamp ascending.
func PointAt(target int64, points []*domain.CurvePoint) (*domain.CurvePoint, error) {
	if len(points) == 0 {
		return nil, ErrNoCurveData
	}

	// First index strictly after target.
	i := sort.Search(len(points), func(i int) bool {
		return points[i].TimestampMs > target
	})
	if i == 0 {
		return nil, ErrBeforeHistory
	}
	return points[i-1], nil
}

// Latest returns the most recent observation.
func Latest(points []*domain.CurvePoint) (*domain.CurvePoint, error) {
	if len(points) == 0 {
		return nil, ErrNoCurveData
	}
	return points[len(points)-1], nil
}
