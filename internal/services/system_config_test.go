package services

import (
	"testing"
)

func TestSystemConfig_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	if err := svc.Set("oracle_timeout_seconds", "20"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, err := svc.Get("oracle_timeout_seconds")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "20" {
		t.Errorf("value = %q, want 20", value)
	}

	// Overwrite
	if err := svc.Set("oracle_timeout_seconds", "30"); err != nil {
		t.Fatalf("Set (update): %v", err)
	}
	if got := svc.GetWithDefault("oracle_timeout_seconds", "15"); got != "30" {
		t.Errorf("value after update = %q, want 30", got)
	}
}

func TestSystemConfig_Defaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	if got := svc.GetWithDefault("missing_key", "fallback"); got != "fallback" {
		t.Errorf("GetWithDefault = %q, want fallback", got)
	}
	if got := svc.GetInt("missing_int", 42); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	if got := svc.GetBool("missing_bool", true); !got {
		t.Error("GetBool default should be true")
	}

	svc.Set("aggregate_analysis_enabled", "false")
	if svc.GetBool("aggregate_analysis_enabled", true) {
		t.Error("stored false should win over default true")
	}

	svc.Set("bad_int", "not-a-number")
	if got := svc.GetInt("bad_int", 7); got != 7 {
		t.Errorf("GetInt on garbage = %d, want default 7", got)
	}
}
