package services

import (
	"testing"
	"time"

	"github.com/renttrust/renttrust/internal/models"
)

func TestSystemLog_WriteAndList(t *testing.T) {
	db := setupTestDB(t)
	InitSystemLogger(db)
	t.Cleanup(func() { InitSystemLogger(nil) })

	uid := uint(7)
	LogInfo("review", "submit", "review submitted", &uid, "req-1", "1.2.3.4", "test-agent", map[string]int{"rating": 5})
	LogWarning("oracle", "judge", "oracle unavailable", nil, "req-2", "1.2.3.4", "test-agent", nil)

	svc := NewSystemLogService(db)
	resp, err := svc.List(&SystemLogListRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}

	filtered, err := svc.List(&SystemLogListRequest{Page: 1, PageSize: 10, Level: "warning"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if filtered.Total != 1 {
		t.Errorf("warning total = %d, want 1", filtered.Total)
	}
	if filtered.Items[0].Module != "oracle" {
		t.Errorf("module = %q, want oracle", filtered.Items[0].Module)
	}
	if filtered.Items[0].RequestID != "req-2" {
		t.Errorf("request id = %q, want req-2", filtered.Items[0].RequestID)
	}
}

func TestSystemLog_Cleanup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db)

	old := models.SystemLog{Level: "info", Module: "review", Message: "old entry", CreatedAt: time.Now().AddDate(0, 0, -60)}
	fresh := models.SystemLog{Level: "info", Module: "review", Message: "fresh entry", CreatedAt: time.Now()}
	if err := svc.Create(&old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := svc.Create(&fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	var count int64
	db.Model(&models.SystemLog{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining = %d, want 1", count)
	}

	// Retention <= 0 disables cleanup
	if deleted, _ := svc.CleanupOldLogs(0); deleted != 0 {
		t.Errorf("cleanup with retention 0 deleted %d rows", deleted)
	}
}

func TestSystemLog_Retention(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db)

	if days := svc.GetRetentionDays(); days != 30 {
		t.Errorf("default retention = %d, want 30", days)
	}

	if err := svc.SetRetentionDays(90); err != nil {
		t.Fatalf("SetRetentionDays: %v", err)
	}
	if days := svc.GetRetentionDays(); days != 90 {
		t.Errorf("retention = %d, want 90", days)
	}
}
