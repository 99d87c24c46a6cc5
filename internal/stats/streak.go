package stats

import "github.com/Miguel-Lopes31/poetas-mortos/internal/entities"

// maxStreakDays bounds the backward walk so the streak computation always
// terminates, even on pathological data. Ten years of unbroken daily reading
// is beyond any plausible streak.
const maxStreakDays = 3650

// ReadLookup is the single per-day query the streak walk repeats.
type ReadLookup interface {
	ReadOnDate(userID uint, date entities.Date) (bool, error)
}

// CurrentStreak counts consecutive calendar days ending at today, each with
// a did_read diary entry. No entry for today (or a did_read=false one)
// yields 0 regardless of earlier history.
func CurrentStreak(store ReadLookup, userID uint, today entities.Date) (int, error) {
	streak := 0
	day := today
	for streak < maxStreakDays {
		read, err := store.ReadOnDate(userID, day)
		if err != nil {
			return 0, err
		}
		if !read {
			break
		}
		streak++
		day = day.AddDays(-1)
	}
	return streak, nil
}
