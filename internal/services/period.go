package services

import (
	"time"

	dbm "tripvote/internal/models/db_models"
)

const (
	noonMinutes    = 12 * 60
	eveningMinutes = 18 * 60
)

// ActivityPeriod places an activity in the day from the venue's hours on
// date: open before noon and still open after it is morning, opening in the
// afternoon and still open after six is afternoon, anything else is night.
// Without hours the position decides: 1-2 morning, 3-4 afternoon, then night.
func ActivityPeriod(hours *OpeningHours, date time.Time, position int) dbm.ActivityPeriod {
	if period, ok := hoursPeriod(hours, date); ok {
		return period
	}
	return positionPeriod(position)
}

func hoursPeriod(hours *OpeningHours, date time.Time) (dbm.ActivityPeriod, bool) {
	p, ok := hours.periodOn(date)
	if !ok {
		return "", false
	}
	open := p.Open.minutes()
	closing := 24 * 60
	if p.Close != nil {
		closing = p.Close.minutes()
		if p.Close.Day != p.Open.Day {
			closing += 24 * 60
		}
	}
	switch {
	case open < noonMinutes && noonMinutes < closing:
		return dbm.PeriodMorning, true
	case noonMinutes < open && open < eveningMinutes && eveningMinutes < closing:
		return dbm.PeriodAfternoon, true
	default:
		return dbm.PeriodNight, true
	}
}

func positionPeriod(position int) dbm.ActivityPeriod {
	switch {
	case position <= 2:
		return dbm.PeriodMorning
	case position <= 4:
		return dbm.PeriodAfternoon
	default:
		return dbm.PeriodNight
	}
}
