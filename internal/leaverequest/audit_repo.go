package leaverequest

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository only ever inserts and reads. There is deliberately no
// update or delete operation.
//
//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type AuditRepository interface {
	WithTx(tx *gorm.DB) AuditRepository
	Record(ctx context.Context, entry *LeaveRequestAudit) error
	FindByRequest(ctx context.Context, requestID uuid.UUID) ([]LeaveRequestAudit, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) Record(ctx context.Context, entry *LeaveRequestAudit) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) FindByRequest(ctx context.Context, requestID uuid.UUID) ([]LeaveRequestAudit, error) {
	var entries []LeaveRequestAudit
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
