package services

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hunet324/expertlink/internal/models"
)

// AuditLogger records security-relevant events. All methods are
// fire-and-forget: a failing sink must never abort the calling operation.
type AuditLogger interface {
	LogUserLogin(userID uint, ip, userAgent string)
	LogPasswordChange(userID uint, ip, userAgent string)
	LogSystemSettingChange(userID uint, key, oldValue, newValue string)
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) LogUserLogin(userID uint, ip, userAgent string) {
	s.write(models.SystemLog{
		Action:    models.ActionUserLogin,
		Message:   "user logged in",
		UserID:    &userID,
		IPAddress: ip,
		UserAgent: userAgent,
	})
}

func (s *AuditService) LogPasswordChange(userID uint, ip, userAgent string) {
	s.write(models.SystemLog{
		Action:    models.ActionPasswordChange,
		Message:   "user changed password",
		UserID:    &userID,
		IPAddress: ip,
		UserAgent: userAgent,
	})
}

func (s *AuditService) LogSystemSettingChange(userID uint, key, oldValue, newValue string) {
	entry := models.SystemLog{
		Action:  models.ActionSystemSettingChange,
		Message: "system setting changed",
		UserID:  &userID,
	}
	if b, err := json.Marshal(map[string]string{
		"key": key, "old": oldValue, "new": newValue,
	}); err == nil {
		entry.Extra = datatypes.JSON(b)
	}
	s.write(entry)
}

func (s *AuditService) write(entry models.SystemLog) {
	entry.ID = uuid.New()
	entry.Timestamp = time.Now()
	entry.Level = "INFO"

	go func() {
		if err := s.db.Create(&entry).Error; err != nil {
			slog.Warn("audit log write failed", "action", entry.Action, "error", err)
		}
	}()
}
