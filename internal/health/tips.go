package health

import "time"

var dailyTips = []string{
	"Stay hydrated — drink at least 2L water today",
	"Take a 10-minute walk after meals 🚶‍♀️",
	"Get 7-8 hours of sleep tonight",
	"Include fiber-rich foods in your diet",
	"Practice deep breathing for 5 minutes 🧘‍♀️",
}

// DailyTip picks a tip for the given day. The same day always yields the same tip.
func DailyTip(day time.Time) string {
	return dailyTips[day.YearDay()%len(dailyTips)]
}
