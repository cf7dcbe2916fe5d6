package holiday

import (
	"context"
	"errors"
	"time"

	holidayerrors "leavedesk/internal/holiday/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context) ([]HolidayResponse, error)
	GetByID(ctx context.Context, id string) (HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	s.logger.Debug("create holiday requested",
		zap.String("name", req.Name),
		zap.String("type", req.Type),
	)

	h, err := buildHoliday(req.Name, req.StartDate, req.EndDate, req.Type, req.EmployeeID, req.RepeatWeekly)
	if err != nil {
		s.logger.Warn("create holiday validation failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	h.ID = uuid.New()
	h.IsLocked = req.IsLocked

	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	s.logger.Info("create holiday success", zap.String("holiday_id", h.ID.String()))

	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (HolidayResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}
	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}
	if existing.IsLocked {
		return HolidayResponse{}, holidayerrors.ErrHolidayLocked
	}

	h, err := buildHoliday(req.Name, req.StartDate, req.EndDate, req.Type, req.EmployeeID, req.RepeatWeekly)
	if err != nil {
		s.logger.Warn("update holiday validation failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, err
	}
	existing.Name = h.Name
	existing.StartDate = h.StartDate
	existing.EndDate = h.EndDate
	existing.Type = h.Type
	existing.EmployeeID = h.EmployeeID
	existing.RepeatWeekly = h.RepeatWeekly
	existing.IsLocked = req.IsLocked

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("update holiday persist failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, err
	}
	s.logger.Info("update holiday success", zap.String("holiday_id", id))

	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}
	if existing.IsLocked {
		return holidayerrors.ErrHolidayLocked
	}

	return s.repo.Delete(ctx, id)
}

func buildHoliday(name, startDate, endDate, holidayType string, employeeID *string, repeatWeekly bool) (*Holiday, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, holidayerrors.ErrInvalidDateRange
	}
	if !ValidType(holidayType) {
		return nil, holidayerrors.ErrInvalidHolidayType
	}

	h := &Holiday{
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		Type:         holidayType,
		RepeatWeekly: repeatWeekly,
	}

	if holidayType == TypeEmployee {
		if employeeID == nil || *employeeID == "" {
			return nil, holidayerrors.ErrEmployeeIDRequired
		}
		empUUID, err := uuid.Parse(*employeeID)
		if err != nil {
			return nil, holidayerrors.ErrEmployeeIDRequired
		}
		h.EmployeeID = &empUUID
	} else if repeatWeekly {
		return nil, holidayerrors.ErrRepeatWeeklyEmployeeOnly
	}

	return h, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	resp := HolidayResponse{
		ID:           h.ID.String(),
		Name:         h.Name,
		StartDate:    h.StartDate.Format("2006-01-02"),
		EndDate:      h.EndDate.Format("2006-01-02"),
		Type:         h.Type,
		RepeatWeekly: h.RepeatWeekly,
		IsLocked:     h.IsLocked,
	}
	if h.EmployeeID != nil {
		v := h.EmployeeID.String()
		resp.EmployeeID = &v
	}
	return resp
}
