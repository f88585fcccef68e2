package model

import "time"

// DailyActivity aggregates license operations for one calendar day.
type DailyActivity struct {
	Date      time.Time `json:"date"`
	Downloads int       `json:"downloads"`
	Resets    int       `json:"resets"`
}

// ActivityStatistics summarizes audit-log activity over a date range.
type ActivityStatistics struct {
	TotalDownloads  int64           `json:"total_downloads"`
	TotalResets     int64           `json:"total_resets"`
	FailedLogins    int64           `json:"failed_logins"`
	EventsByProduct map[string]int  `json:"events_by_product"`
	DailyActivity   []DailyActivity `json:"daily_activity"`
}

// TotalEvents returns the number of audited license operations.
func (s *ActivityStatistics) TotalEvents() int64 {
	return s.TotalDownloads + s.TotalResets
}

// EventsForProduct returns the event count for a product name.
func (s *ActivityStatistics) EventsForProduct(name string) int {
	if count, ok := s.EventsByProduct[name]; ok {
		return count
	}
	return 0
}
