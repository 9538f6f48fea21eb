// Package projection turns the flat message list into what a view renders:
// messages grouped by calendar day with human date and time labels and read
// indicators. It never talks to the network or mutates messages.
package projection

import (
	"fmt"
	"time"

	"portal-chat/domain"
)

// DayGroup is one calendar day of messages, oldest day first in a Timeline.
type DayGroup struct {
	Label    string
	Day      time.Time // midnight, local time
	Messages []domain.Message
}

// Timeline is the render-ready projection of a project's messages.
type Timeline struct {
	Groups []DayGroup
}

// BuildTimeline groups messages by the local calendar day of their creation
// time. Input order is preserved inside each group; the server already
// returns messages ascending.
func BuildTimeline(messages []domain.Message, now time.Time) Timeline {
	var timeline Timeline
	for _, m := range messages {
		day := startOfDay(m.CreatedAt.In(now.Location()))
		if n := len(timeline.Groups); n > 0 && timeline.Groups[n-1].Day.Equal(day) {
			timeline.Groups[n-1].Messages = append(timeline.Groups[n-1].Messages, m)
			continue
		}
		timeline.Groups = append(timeline.Groups, DayGroup{
			Label:    DayLabel(day, now),
			Day:      day,
			Messages: []domain.Message{m},
		})
	}
	return timeline
}

// DayLabel names a calendar day relative to now: Today, Yesterday, or the
// full date.
func DayLabel(day time.Time, now time.Time) string {
	today := startOfDay(now)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Monday, January 2, 2006")
	}
}

// TimeLabel renders the message's time: clock time when it is less than a
// day old, a coarse relative age otherwise.
func TimeLabel(createdAt time.Time, now time.Time) string {
	age := now.Sub(createdAt)
	if age < 24*time.Hour {
		return createdAt.In(now.Location()).Format("15:04")
	}

	days := int(age.Hours() / 24)
	if days < 7 {
		return plural(days, "day")
	}
	if days < 30 {
		return plural(days/7, "week")
	}
	if days < 365 {
		return plural(days/30, "month")
	}
	return plural(days/365, "year")
}

// ReadIndicator is shown on the author's own messages only: a double check
// once anyone else has read the message, a single check before that.
func ReadIndicator(m domain.Message, selfID string) string {
	if m.SenderID != selfID {
		return ""
	}
	if m.SeenByOther() {
		return "✓✓"
	}
	return "✓"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func plural(n int, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
