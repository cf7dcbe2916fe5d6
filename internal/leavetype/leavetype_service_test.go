package leavetype

import (
	"context"
	"testing"

	leavetypeerrors "leavedesk/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepo struct {
	Repository
	rows map[uuid.UUID]*LeaveType

	createErr error
	updateErr error
	created   int
	updated   int
}

func (f *fakeLeaveTypeRepo) Create(ctx context.Context, lt *LeaveType) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created++
	f.rows[lt.ID] = lt
	return nil
}

func (f *fakeLeaveTypeRepo) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	lid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	lt, ok := f.rows[lid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *lt
	return &cp, nil
}

func (f *fakeLeaveTypeRepo) Update(ctx context.Context, lt *LeaveType) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated++
	f.rows[lt.ID] = lt
	return nil
}

func uniqueViolation() error {
	// Kode yang sama dengan pelanggaran constraint unik Postgres.
	return &pgconn.PgError{Code: "23505", ConstraintName: "uni_leave_types_name"}
}

func TestLeaveTypeService_DuplicateName(t *testing.T) {
	t.Run("create maps unique violation", func(t *testing.T) {
		repo := &fakeLeaveTypeRepo{rows: map[uuid.UUID]*LeaveType{}, createErr: uniqueViolation()}
		svc := &service{repo: repo, logger: zap.NewNop()}

		_, err := svc.Create(context.Background(), CreateLeaveTypeRequest{
			Name:             "Cuti Tahunan",
			DefaultAllowance: "12",
			Unit:             "DAYS",
			Cadence:          "ANNUAL",
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNameTaken)
		assert.Zero(t, repo.created)
	})

	t.Run("update maps unique violation", func(t *testing.T) {
		existingID := uuid.New()
		repo := &fakeLeaveTypeRepo{
			rows: map[uuid.UUID]*LeaveType{
				existingID: {ID: existingID, Name: "Cuti Sakit", Unit: "DAYS", Cadence: "ANNUAL"},
			},
			updateErr: uniqueViolation(),
		}
		svc := &service{repo: repo, logger: zap.NewNop()}

		_, err := svc.Update(context.Background(), existingID.String(), UpdateLeaveTypeRequest{
			Name:             "Cuti Tahunan",
			DefaultAllowance: "10",
			Unit:             "DAYS",
			Cadence:          "ANNUAL",
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNameTaken)
		assert.Zero(t, repo.updated)
	})

	t.Run("other persistence errors pass through", func(t *testing.T) {
		repo := &fakeLeaveTypeRepo{rows: map[uuid.UUID]*LeaveType{}, createErr: gorm.ErrInvalidDB}
		svc := &service{repo: repo, logger: zap.NewNop()}

		_, err := svc.Create(context.Background(), CreateLeaveTypeRequest{
			Name:             "Cuti Tahunan",
			DefaultAllowance: "12",
			Unit:             "DAYS",
			Cadence:          "ANNUAL",
		})
		assert.ErrorIs(t, err, gorm.ErrInvalidDB)
		assert.NotErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNameTaken)
	})
}

func TestLeaveTypeService_Allowance(t *testing.T) {
	tests := []struct {
		name      string
		allowance string
		wantErr   bool
	}{
		{name: "whole days", allowance: "12"},
		{name: "fractional hours", allowance: "7.5"},
		{name: "zero allowed", allowance: "0"},
		{name: "negative rejected", allowance: "-1", wantErr: true},
		{name: "non numeric rejected", allowance: "dua belas", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeLeaveTypeRepo{rows: map[uuid.UUID]*LeaveType{}}
			svc := &service{repo: repo, logger: zap.NewNop()}

			resp, err := svc.Create(context.Background(), CreateLeaveTypeRequest{
				Name:             "Cuti " + tt.name,
				DefaultAllowance: tt.allowance,
				Unit:             "DAYS",
				Cadence:          "ANNUAL",
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidAllowance)
				assert.Zero(t, repo.created)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.allowance, resp.DefaultAllowance)
		})
	}
}

func TestLeaveTypeService_GetByID(t *testing.T) {
	existingID := uuid.New()
	repo := &fakeLeaveTypeRepo{rows: map[uuid.UUID]*LeaveType{
		existingID: {ID: existingID, Name: "Cuti Tahunan", Unit: "DAYS", Cadence: "ANNUAL"},
	}}
	svc := &service{repo: repo, logger: zap.NewNop()}

	_, err := svc.GetByID(context.Background(), "bukan-uuid")
	assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidLeaveTypeID)

	_, err = svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)

	resp, err := svc.GetByID(context.Background(), existingID.String())
	assert.NoError(t, err)
	assert.Equal(t, "Cuti Tahunan", resp.Name)
}
