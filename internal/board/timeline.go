package board

import (
	"time"

	"kyri56xcaesar/pms-dash/internal/utils"
)

type TimelineItem struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Start    time.Time `json:"startDate" yaml:"startDate"`
	End      time.Time `json:"endDate" yaml:"endDate"`
	Progress int       `json:"progress" yaml:"progress"`
}

// TimelineSlot is the horizontal placement of an item, in percent of the
// bounding window.
type TimelineSlot struct {
	ID    string  `json:"id" yaml:"id"`
	Left  float64 `json:"left" yaml:"left"`
	Width float64 `json:"width" yaml:"width"`
}

func TimelineItems(projects []Project) []TimelineItem {
	return utils.Map(projects, func(p Project) TimelineItem {
		return TimelineItem{
			ID:       p.ID,
			Title:    p.Name,
			Start:    p.StartDate,
			End:      p.EndDate,
			Progress: p.Progress,
		}
	})
}

// ComputeTimelineLayout places items inside the window spanning the earliest
// start and the latest end. A zero length window places everything at 0/0.
func ComputeTimelineLayout(items []TimelineItem) []TimelineSlot {
	if len(items) == 0 {
		return []TimelineSlot{}
	}

	start, end := items[0].Start, items[0].End
	for _, it := range items[1:] {
		if it.Start.Before(start) {
			start = it.Start
		}
		if it.End.After(end) {
			end = it.End
		}
	}
	total := float64(end.Sub(start))

	return utils.Map(items, func(it TimelineItem) TimelineSlot {
		return TimelineSlot{
			ID:    it.ID,
			Left:  utils.Ratio(float64(it.Start.Sub(start)), total) * 100,
			Width: utils.Ratio(float64(it.End.Sub(it.Start)), total) * 100,
		}
	})
}
