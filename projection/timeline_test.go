package projection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"portal-chat/domain"
)

func msgAt(createdAt time.Time, content string) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		ProjectID: "proj-1",
		SenderID:  "user-1",
		Content:   content,
		CreatedAt: createdAt,
	}
}

func TestBuildTimeline_ThreeDaysYieldThreeGroups(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.Local)

	messages := []domain.Message{
		msgAt(now.AddDate(0, 0, -2), "oldest"),
		msgAt(now.AddDate(0, 0, -1).Add(-time.Hour), "middle one"),
		msgAt(now.AddDate(0, 0, -1), "middle two"),
		msgAt(now.Add(-time.Hour), "newest"),
	}

	timeline := BuildTimeline(messages, now)

	req.Len(timeline.Groups, 3)
	req.True(timeline.Groups[0].Day.Before(timeline.Groups[1].Day))
	req.True(timeline.Groups[1].Day.Before(timeline.Groups[2].Day))

	req.Len(timeline.Groups[0].Messages, 1)
	req.Len(timeline.Groups[1].Messages, 2)
	req.Len(timeline.Groups[2].Messages, 1)

	// Order within a group is preserved.
	req.Equal("middle one", timeline.Groups[1].Messages[0].Content)
	req.Equal("middle two", timeline.Groups[1].Messages[1].Content)
}

func TestBuildTimeline_Labels(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.Local)

	messages := []domain.Message{
		msgAt(time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local), "old"),
		msgAt(now.AddDate(0, 0, -1), "yesterday"),
		msgAt(now.Add(-time.Minute), "today"),
	}

	timeline := BuildTimeline(messages, now)

	req.Len(timeline.Groups, 3)
	req.Equal("Thursday, August 20, 2026", timeline.Groups[0].Label)
	req.Equal("Yesterday", timeline.Groups[1].Label)
	req.Equal("Today", timeline.Groups[2].Label)
}

func TestBuildTimeline_Empty(t *testing.T) {
	req := require.New(t)
	timeline := BuildTimeline(nil, time.Now())
	req.Empty(timeline.Groups)
}

func TestTimeLabel(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.Local)

	req.Equal("13:30", TimeLabel(time.Date(2026, 8, 28, 13, 30, 0, 0, time.Local), now))
	req.Equal("1 day ago", TimeLabel(now.Add(-25*time.Hour), now))
	req.Equal("3 days ago", TimeLabel(now.AddDate(0, 0, -3), now))
	req.Equal("2 weeks ago", TimeLabel(now.AddDate(0, 0, -15), now))
	req.Equal("2 months ago", TimeLabel(now.AddDate(0, 0, -70), now))
	req.Equal("1 year ago", TimeLabel(now.AddDate(-1, 0, -5), now))
}

func TestReadIndicator(t *testing.T) {
	req := require.New(t)

	own := domain.Message{SenderID: "self"}
	req.Equal("✓", ReadIndicator(own, "self"))

	own.ReadBy = []string{"other"}
	req.Equal("✓✓", ReadIndicator(own, "self"))

	foreign := domain.Message{SenderID: "other"}
	req.Equal("", ReadIndicator(foreign, "self"))
}
