package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"waste-schedule-service/internal/logging"
	"waste-schedule-service/internal/schedule"
	"waste-schedule-service/internal/timeutil"
)

// Periods lists the community's schedule periods for the current calendar
// year. The year filter is a string-prefix match on the start date, matching
// the source service's own policy; periods from other years are invisible to
// the rest of the system.
func (r *Resolver) Periods(ctx context.Context, communityID string) ([]schedule.Period, error) {
	raw, err := r.client.SchedulePeriods(ctx, communityID)
	if err != nil {
		return nil, err
	}

	year := strconv.Itoa(r.now().Year())
	periods := make([]schedule.Period, 0, len(raw))
	for _, p := range raw {
		if !strings.HasPrefix(p.StartDate, year) {
			continue
		}
		periods = append(periods, schedule.Period{
			ID:         p.ID,
			StartDate:  p.StartDate,
			EndDate:    p.EndDate,
			ChangeDate: p.ChangeDate,
		})
	}
	return periods, nil
}

// CurrentPeriod selects the period containing today; failing that, the most
// recent past period (future periods may lack data); failing that, the
// earliest future one. ErrNoPeriods when the provider lists none.
func (r *Resolver) CurrentPeriod(ctx context.Context, communityID string) (schedule.Period, error) {
	periods, err := r.Periods(ctx, communityID)
	if err != nil {
		return schedule.Period{}, err
	}
	if len(periods) == 0 {
		return schedule.Period{}, ErrNoPeriods
	}

	today := timeutil.DateOnly(r.now())

	var mostRecentPast *schedule.Period
	var mostRecentPastEnd time.Time
	var earliestFuture *schedule.Period
	var earliestFutureStart time.Time

	for i := range periods {
		p := periods[i]
		start, end, err := p.Bounds()
		if err != nil {
			logging.Warn(r.logger, "skipping period with unparseable bounds",
				slog.String(logging.FieldPeriodID, p.ID),
				slog.String("start", p.StartDate),
				slog.String("end", p.EndDate),
			)
			continue
		}
		if !today.Before(start) && !today.After(end) {
			return p, nil
		}
		if end.Before(today) {
			if mostRecentPast == nil || end.After(mostRecentPastEnd) {
				mostRecentPast = &periods[i]
				mostRecentPastEnd = end
			}
			continue
		}
		if earliestFuture == nil || start.Before(earliestFutureStart) {
			earliestFuture = &periods[i]
			earliestFutureStart = start
		}
	}

	if mostRecentPast != nil {
		return *mostRecentPast, nil
	}
	if earliestFuture != nil {
		return *earliestFuture, nil
	}
	return schedule.Period{}, ErrNoPeriods
}
