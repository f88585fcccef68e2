package service

import (
	"encoding/json"
	"log"
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"
)

// ActivityLogger is the shared audit sink for license operations. Entries
// are immutable once written; the optional sheet mirror runs off the
// request path.
type ActivityLogger struct {
	sheetSync *AuditSheetSync
}

func NewActivityLogger(sheetSync *AuditSheetSync) *ActivityLogger {
	return &ActivityLogger{sheetSync: sheetSync}
}

func (a *ActivityLogger) Record(eventKind, licenseKey, productName, ip string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	entry := &model.ActivityLog{
		EventKind:   eventKind,
		LicenseKey:  licenseKey,
		ProductName: productName,
		IPAddress:   ip,
		Details:     string(detailsJSON),
		CreatedAt:   time.Now(),
	}

	if err := database.DB.Create(entry).Error; err != nil {
		return err
	}

	if a.sheetSync != nil {
		go func() {
			if err := a.sheetSync.AppendLog(entry); err != nil {
				log.Printf("sheet sync failed for activity log %d: %v", entry.ID, err)
			}
		}()
	}
	return nil
}

// GetActivityLogs returns one page of audit entries, newest first.
func GetActivityLogs(page, pageSize int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := database.DB

	if err := db.Model(&model.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := db.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// GetActivityStatistics aggregates audit activity between start and end.
func GetActivityStatistics(start, end time.Time) (*model.ActivityStatistics, error) {
	db := database.DB

	stats := &model.ActivityStatistics{
		EventsByProduct: make(map[string]int),
		DailyActivity:   make([]model.DailyActivity, 0),
	}

	if err := db.Model(&model.ActivityLog{}).
		Where("event_kind = ? AND created_at BETWEEN ? AND ?", model.EventDownload, start, end).
		Count(&stats.TotalDownloads).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.ActivityLog{}).
		Where("event_kind = ? AND created_at BETWEEN ? AND ?", model.EventHwidReset, start, end).
		Count(&stats.TotalResets).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.LoginAttempt{}).
		Where("success = ? AND attempted_at BETWEEN ? AND ?", false, start, end).
		Count(&stats.FailedLogins).Error; err != nil {
		return nil, err
	}

	var productStats []struct {
		ProductName string
		Count       int
	}
	if err := db.Model(&model.ActivityLog{}).
		Select("product_name, count(*) as count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("product_name").
		Scan(&productStats).Error; err != nil {
		return nil, err
	}
	for _, ps := range productStats {
		stats.EventsByProduct[ps.ProductName] = ps.Count
	}

	var dailyStats []struct {
		Date      string
		Downloads int
		Resets    int
	}
	if err := db.Model(&model.ActivityLog{}).
		Select("DATE(created_at) as date, "+
			"SUM(CASE WHEN event_kind = 'download' THEN 1 ELSE 0 END) as downloads, "+
			"SUM(CASE WHEN event_kind = 'hwid_reset' THEN 1 ELSE 0 END) as resets").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&dailyStats).Error; err != nil {
		return nil, err
	}
	for _, ds := range dailyStats {
		day, err := time.Parse("2006-01-02", ds.Date)
		if err != nil {
			continue
		}
		stats.DailyActivity = append(stats.DailyActivity, model.DailyActivity{
			Date:      day,
			Downloads: ds.Downloads,
			Resets:    ds.Resets,
		})
	}

	return stats, nil
}
