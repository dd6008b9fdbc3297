package engine

import (
	"errors"
	"fmt"
)

// ErrNoActivePeriod means the provider lists no schedule periods for the
// community. There is no fallback; the host cannot produce a schedule.
var ErrNoActivePeriod = errors.New("no active schedule period")

// NoDataError means a refresh completed structurally but yielded no
// categories or dates, with no cache to fall back on and identifier recovery
// exhausted. It signals "reconfiguration may be required" rather than a
// transient communication failure.
type NoDataError struct {
	PeriodID string
	Reason   string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no schedule data for period %s: %s (reconfiguration may be required)", e.PeriodID, e.Reason)
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}
