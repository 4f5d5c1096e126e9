package logic

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/futchampions/tracker-api/internal/models"
)

func TestGetNotificationSettings_Defaults(t *testing.T) {
	svc := NewSettingsService(&MockPgPool{})

	ns, err := svc.GetNotificationSettings(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("GetNotificationSettings failed: %v", err)
	}
	if *ns != models.DefaultNotificationSettings(testUserID) {
		t.Errorf("settings = %+v, want defaults", ns)
	}
}

func TestGetNotificationSettings_Stored(t *testing.T) {
	mockPg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockPgRow{Values: []any{true, false, true, false, false, false, false, testTime}}
		},
	}
	ns, err := NewSettingsService(mockPg).GetNotificationSettings(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("GetNotificationSettings failed: %v", err)
	}
	if !ns.EmailAchievements || ns.PushAchievements || !ns.EmailLeagues || ns.InAppFeedback {
		t.Errorf("settings = %+v", ns)
	}
	if ns.UserID != testUserID {
		t.Errorf("UserID = %v, want %v", ns.UserID, testUserID)
	}
}

func TestUpdateNotificationSettings(t *testing.T) {
	mockPg := &MockPgPool{}
	in := models.NotificationSettings{UserID: testUserID, PushLeagues: true}

	out, err := NewSettingsService(mockPg).UpdateNotificationSettings(context.Background(), in)
	if err != nil {
		t.Fatalf("UpdateNotificationSettings failed: %v", err)
	}
	if out.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be stamped")
	}
	if mockPg.execCount("ON CONFLICT (user_id) DO UPDATE") != 1 {
		t.Error("expected one upsert")
	}
	if got := mockPg.ExecArgs[0][4]; got != true {
		t.Errorf("push_leagues arg = %v, want true", got)
	}
}
