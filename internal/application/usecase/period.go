package usecase

import (
	"fmt"
	"time"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

const dateLayout = "2006-01-02"

// ResolvePeriod determines the Cost Explorer window.
// Explicit start/end win; otherwise the last `days` days ending today are used.
// End is exclusive, as Cost Explorer expects.
func ResolvePeriod(now time.Time, days int, start, end string) (entity.Period, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if start != "" || end != "" {
		var period entity.Period
		var err error

		if start == "" {
			return entity.Period{}, fmt.Errorf("%w: end given without start", types.ErrInvalidPeriod)
		}
		if period.Start, err = time.Parse(dateLayout, start); err != nil {
			return entity.Period{}, fmt.Errorf("%w: start %q is not YYYY-MM-DD", types.ErrInvalidPeriod, start)
		}

		period.End = today
		if end != "" {
			if period.End, err = time.Parse(dateLayout, end); err != nil {
				return entity.Period{}, fmt.Errorf("%w: end %q is not YYYY-MM-DD", types.ErrInvalidPeriod, end)
			}
		}
		if !period.Start.Before(period.End) {
			return entity.Period{}, fmt.Errorf("%w: start %s must be before end %s", types.ErrInvalidPeriod,
				period.Start.Format(dateLayout), period.End.Format(dateLayout))
		}
		return period, nil
	}

	if days < 0 {
		return entity.Period{}, fmt.Errorf("%w: time range must be positive, got %d", types.ErrInvalidPeriod, days)
	}
	if days == 0 {
		days = types.DefaultTimeRange
	}

	return entity.Period{
		Start: today.AddDate(0, 0, -days),
		End:   today,
	}, nil
}
