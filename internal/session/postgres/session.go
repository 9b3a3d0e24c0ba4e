package postgres

import (
	"context"
	"errors"
	"time"

	sessionDatamodel "github.com/frahmantamala/expenses-tracker/internal/core/datamodel/session"
	"github.com/frahmantamala/expenses-tracker/internal/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository stores sessions through gorm; it runs on the postgres and
// sqlite dialectors alike.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) session.RepositoryAPI {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByProfile(ctx context.Context, profile string) (*sessionDatamodel.Session, error) {
	var row sessionDatamodel.Session
	err := r.db.WithContext(ctx).Where("profile = ?", profile).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Save upserts on profile so each profile keeps exactly one row.
func (r *SessionRepository) Save(ctx context.Context, row *sessionDatamodel.Session) error {
	row.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "token", "expires_at", "updated_at"}),
	}).Create(row).Error
}

func (r *SessionRepository) DeleteByProfile(ctx context.Context, profile string) error {
	return r.db.WithContext(ctx).Where("profile = ?", profile).Delete(&sessionDatamodel.Session{}).Error
}
