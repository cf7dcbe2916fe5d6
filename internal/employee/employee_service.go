package employee

import (
	"context"
	"errors"
	"time"

	employeeerrors "leavedesk/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetByManager(ctx context.Context, managerID string) ([]EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested", zap.String("email", req.Email))

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Position:  req.Position,
		StartDate: startDate,
		IsActive:  true,
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(tx.Error))
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e.ManagerID, err = s.resolveManager(ctx, qtx, e.ID, req.ManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	e.WorkScheduleID, err = s.resolveSchedule(ctx, qtx, req.WorkScheduleID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

// GetByManager lists the direct reports a manager may act on.
func (s *service) GetByManager(ctx context.Context, managerID string) ([]EmployeeResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	employees, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(tx.Error))
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	managerID, err := s.resolveManager(ctx, qtx, e.ID, req.ManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	scheduleID, err := s.resolveSchedule(ctx, qtx, req.WorkScheduleID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.Position = req.Position
	e.StartDate = startDate
	e.ManagerID = managerID
	e.WorkScheduleID = scheduleID

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update employee commit failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*e), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *service) setActive(ctx context.Context, id string, active bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}
	if e.IsActive == active {
		if active {
			return employeeerrors.ErrEmployeeActive
		}
		return employeeerrors.ErrEmployeeInactive
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		s.logger.Error("set employee active failed",
			zap.String("employee_id", id),
			zap.Bool("active", active),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("employee active flag changed",
		zap.String("employee_id", id),
		zap.Bool("active", active),
	)
	return nil
}

// resolveManager validates a proposed manager assignment: the manager must
// exist, must not be the employee themself, and must not sit below the
// employee in the reporting chain.
func (s *service) resolveManager(ctx context.Context, qtx Repository, employeeID uuid.UUID, managerID *string) (*uuid.UUID, error) {
	if managerID == nil || *managerID == "" {
		return nil, nil
	}

	mid, err := uuid.Parse(*managerID)
	if err != nil {
		return nil, employeeerrors.ErrManagerNotFound
	}
	if mid == employeeID {
		return nil, employeeerrors.ErrSelfManager
	}

	if _, err := qtx.FindByID(ctx, mid.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrManagerNotFound
		}
		return nil, err
	}

	cycle, err := wouldCreateCycle(ctx, qtx, employeeID, mid)
	if err != nil {
		return nil, err
	}
	if cycle {
		s.logger.Warn("manager assignment rejected, reporting cycle",
			zap.String("employee_id", employeeID.String()),
			zap.String("manager_id", mid.String()),
		)
		return nil, employeeerrors.ErrManagerCycle
	}
	return &mid, nil
}

// wouldCreateCycle walks the reporting chain upward from the proposed
// manager. Reaching the employee means the assignment closes a loop. The
// visited set terminates the walk even on already-corrupt chains.
func wouldCreateCycle(ctx context.Context, qtx Repository, employeeID, managerID uuid.UUID) (bool, error) {
	visited := map[uuid.UUID]bool{}
	current := &managerID
	for current != nil {
		if *current == employeeID {
			return true, nil
		}
		if visited[*current] {
			return false, nil
		}
		visited[*current] = true

		next, err := qtx.GetManagerID(ctx, current.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		current = next
	}
	return false, nil
}

func (s *service) resolveSchedule(ctx context.Context, qtx Repository, scheduleID *string) (*uuid.UUID, error) {
	if scheduleID == nil || *scheduleID == "" {
		return nil, nil
	}
	sid, err := uuid.Parse(*scheduleID)
	if err != nil {
		return nil, employeeerrors.ErrScheduleNotFound
	}
	exists, err := qtx.ScheduleExists(ctx, sid.String())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeeerrors.ErrScheduleNotFound
	}
	return &sid, nil
}

func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, employeeerrors.ErrInvalidDate
	}
	return &d, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmailTaken
	}
	return err
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		FullName:  e.FullName(),
		Email:     e.Email,
		Position:  e.Position,
		IsActive:  e.IsActive,
	}
	if e.StartDate != nil {
		d := e.StartDate.Format("2006-01-02")
		resp.StartDate = &d
	}
	if e.ManagerID != nil {
		m := e.ManagerID.String()
		resp.ManagerID = &m
	}
	if e.WorkScheduleID != nil {
		w := e.WorkScheduleID.String()
		resp.WorkScheduleID = &w
	}
	return resp
}
