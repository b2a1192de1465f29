package storage

// Granularity is the bucket size of a time distribution. Weekly is the
// canonical storage form; the others are derived views.
type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityQuarterly:
		return true
	}
	return false
}

// Period is one bucket of a distribution. Start and end are epoch
// milliseconds at midnight UTC of the first and last day, both inclusive.
type Period struct {
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
	Label     string `json:"label"`
	Quantity  int    `json:"quantity"`
	IsLocked  bool   `json:"is_locked"`
}
