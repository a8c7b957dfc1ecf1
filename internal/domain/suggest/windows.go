package suggest

import "time"

// window is one Friday-to-Sunday span, both ends at midnight UTC.
type window struct {
	start time.Time // Friday
	end   time.Time // Sunday
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// fridayOf returns the Friday of the weekend the date belongs to: the date
// itself on Friday, the preceding Friday on Saturday/Sunday, the upcoming
// Friday otherwise.
func fridayOf(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, -1)
	case time.Sunday:
		return date.AddDate(0, 0, -2)
	default:
		days := (int(time.Friday) - int(date.Weekday()) + 7) % 7
		return date.AddDate(0, 0, days)
	}
}

// upcomingWindows returns the next count weekend windows starting with the
// weekend that contains (or follows) now.
func upcomingWindows(now time.Time, count int) []window {
	fri := fridayOf(dateOf(now))
	out := make([]window, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, window{start: fri, end: fri.AddDate(0, 0, 2)})
		fri = fri.AddDate(0, 0, 7)
	}
	return out
}

// windowsBetween returns every weekend window overlapping the inclusive
// [from, to] date range, in chronological order.
func windowsBetween(from, to time.Time) []window {
	from, to = dateOf(from), dateOf(to)
	if to.Before(from) {
		return nil
	}
	fri := fridayOf(from)
	var out []window
	for !fri.After(to) {
		w := window{start: fri, end: fri.AddDate(0, 0, 2)}
		if !w.end.Before(from) {
			out = append(out, w)
		}
		fri = fri.AddDate(0, 0, 7)
	}
	return out
}
