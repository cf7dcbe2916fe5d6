package schedule

import (
	"context"
	"errors"
	"time"

	scheduleerrors "leavedesk/internal/schedule/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetAll(ctx context.Context) ([]ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (ScheduleResponse, error)
	Update(ctx context.Context, id string, req UpdateScheduleRequest) (ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("create schedule requested",
		zap.String("name", req.Name),
		zap.Bool("is_default", req.IsDefault),
	)

	if err := validateTimeOfDay(req.StartTime, req.EndTime); err != nil {
		return ScheduleResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create schedule begin tx failed", zap.Error(tx.Error))
		return ScheduleResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Setting a new default must unset the previous one in the same tx.
	if req.IsDefault {
		if err := qtx.ClearDefault(ctx); err != nil {
			s.logger.Error("create schedule clear default failed", zap.Error(err))
			return ScheduleResponse{}, err
		}
	}

	sched := &WorkSchedule{
		ID:          uuid.New(),
		Name:        req.Name,
		IsMonday:    req.IsMonday,
		IsTuesday:   req.IsTuesday,
		IsWednesday: req.IsWednesday,
		IsThursday:  req.IsThursday,
		IsFriday:    req.IsFriday,
		IsSaturday:  req.IsSaturday,
		IsSunday:    req.IsSunday,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsDefault:   req.IsDefault,
	}

	if err := qtx.Create(ctx, sched); err != nil {
		s.logger.Error("create schedule persist failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create schedule commit failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	s.logger.Info("create schedule success",
		zap.String("schedule_id", sched.ID.String()),
		zap.Bool("is_default", sched.IsDefault),
	)

	return mapToResponse(*sched), nil
}

func (s *service) GetAll(ctx context.Context) ([]ScheduleResponse, error) {
	schedules, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]ScheduleResponse, len(schedules))
	for i, sched := range schedules {
		resp[i] = mapToResponse(sched)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ScheduleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidScheduleID
	}
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}
	return mapToResponse(*sched), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("update schedule requested",
		zap.String("schedule_id", id),
		zap.Bool("is_default", req.IsDefault),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidScheduleID
	}
	if err := validateTimeOfDay(req.StartTime, req.EndTime); err != nil {
		return ScheduleResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update schedule begin tx failed", zap.Error(tx.Error))
		return ScheduleResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sched, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}

	if req.IsDefault && !sched.IsDefault {
		if err := qtx.ClearDefault(ctx); err != nil {
			s.logger.Error("update schedule clear default failed", zap.Error(err))
			return ScheduleResponse{}, err
		}
	}

	sched.Name = req.Name
	sched.IsMonday = req.IsMonday
	sched.IsTuesday = req.IsTuesday
	sched.IsWednesday = req.IsWednesday
	sched.IsThursday = req.IsThursday
	sched.IsFriday = req.IsFriday
	sched.IsSaturday = req.IsSaturday
	sched.IsSunday = req.IsSunday
	sched.StartTime = req.StartTime
	sched.EndTime = req.EndTime
	sched.IsDefault = req.IsDefault

	if err := qtx.Update(ctx, sched); err != nil {
		s.logger.Error("update schedule persist failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update schedule commit failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}
	s.logger.Info("update schedule success", zap.String("schedule_id", id))

	return mapToResponse(*sched), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return scheduleerrors.ErrInvalidScheduleID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sched, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scheduleerrors.ErrScheduleNotFound
		}
		return err
	}
	if sched.IsDefault {
		return scheduleerrors.ErrCannotDeleteDefault
	}

	assigned, err := qtx.CountAssignedEmployees(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return scheduleerrors.ErrScheduleInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit().Error
}

func validateTimeOfDay(values ...string) error {
	for _, v := range values {
		if _, err := time.Parse("15:04", v); err != nil {
			return scheduleerrors.ErrInvalidTimeOfDay
		}
	}
	return nil
}

func mapToResponse(s WorkSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		IsMonday:    s.IsMonday,
		IsTuesday:   s.IsTuesday,
		IsWednesday: s.IsWednesday,
		IsThursday:  s.IsThursday,
		IsFriday:    s.IsFriday,
		IsSaturday:  s.IsSaturday,
		IsSunday:    s.IsSunday,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsDefault:   s.IsDefault,
	}
}
