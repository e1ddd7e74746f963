package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/models"
)

// Recorder appends to and reads the audit trail. Entries are append-only:
// nothing here updates or deletes them.
type Recorder struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRecorder(db *gorm.DB, log zerolog.Logger) *Recorder {
	return &Recorder{db: db, log: log.With().Str("component", "audit").Logger()}
}

// Append writes one audit entry using the given DB handle. Pass a
// transaction handle to commit the entry atomically with the action it
// describes.
func Append(db *gorm.DB, actor, action, entityType string, entityID uint, details map[string]any) error {
	var payload string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		payload = string(b)
	}
	entry := models.AuditEntry{
		User:       actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now(),
		Details:    payload,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Record appends an entry outside of any business transaction. A failure is
// reported to the operational log and returned, but callers must not treat
// it as grounds to unwind already-committed business state.
func (r *Recorder) Record(ctx context.Context, actor, action, entityType string, entityID uint, details map[string]any) error {
	if err := Append(r.db.WithContext(ctx), actor, action, entityType, entityID, details); err != nil {
		r.log.Error().Err(err).
			Str("actor", actor).
			Str("action", action).
			Str("entity_type", entityType).
			Uint("entity_id", entityID).
			Msg("audit write failed")
		return err
	}
	return nil
}

// Trail returns audit entries newest-first. Filters are conjunctive; a zero
// value ("" or 0) means that filter is omitted.
func (r *Recorder) Trail(ctx context.Context, entityType string, entityID uint) ([]models.AuditEntry, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}
	var entries []models.AuditEntry
	if err := q.Order("timestamp DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	return entries, nil
}
