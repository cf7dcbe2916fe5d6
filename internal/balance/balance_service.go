package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/leavetype"
	leavetypeerrors "leavedesk/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const myBalancesCacheTTL = 5 * time.Minute

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	// EnsureSeeded lazily creates the current-period balance rows an
	// employee is entitled to. Safe to call repeatedly.
	EnsureSeeded(ctx context.Context, employeeID uuid.UUID, now time.Time) error
	MyBalances(ctx context.Context, employeeID string) ([]MyBalanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]BalanceResponse, error)
	ManualSet(ctx context.Context, req ManualSetRequest) (BalanceResponse, error)
	BulkRebase(ctx context.Context, req BulkRebaseRequest) (BulkRebaseResponse, error)
	InvalidateCache(ctx context.Context, employeeID uuid.UUID)
}

type service struct {
	db          *gorm.DB
	repo        Repository
	leaveTypes  leavetype.Repository
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	leaveTypes leavetype.Repository,
	redisClient *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		leaveTypes:  leaveTypes,
		redisClient: redisClient,
		logger:      l,
	}
}

func (s *service) EnsureSeeded(ctx context.Context, employeeID uuid.UUID, now time.Time) error {
	types, err := s.leaveTypes.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, lt := range types {
		year, month := PeriodFor(lt.Cadence, now)

		_, err := s.repo.FindForPeriod(ctx, employeeID, lt.ID, year, month)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		b := &LeaveBalance{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			LeaveTypeID: lt.ID,
			Year:        year,
			Month:       month,
			Total:       lt.DefaultAllowance,
			Remaining:   lt.DefaultAllowance,
		}
		if err := s.repo.Create(ctx, b); err != nil {
			// A concurrent request may have seeded the same row.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				continue
			}
			s.logger.Error("seed balance failed",
				zap.String("employee_id", employeeID.String()),
				zap.String("leave_type_id", lt.ID.String()),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (s *service) MyBalances(ctx context.Context, employeeID string) ([]MyBalanceResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidBalanceID
	}

	now := time.Now().UTC()
	cacheKey := myBalancesCacheKey(eid, now.Year())

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp []MyBalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	if err := s.EnsureSeeded(ctx, eid, now); err != nil {
		return nil, err
	}

	balances, err := s.repo.FindByEmployeeYear(ctx, eid, now.Year())
	if err != nil {
		return nil, err
	}
	types, err := s.leaveTypes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	typesByID := make(map[uuid.UUID]leavetype.LeaveType, len(types))
	for _, lt := range types {
		typesByID[lt.ID] = lt
	}

	resp := make([]MyBalanceResponse, 0, len(balances))
	for _, b := range balances {
		lt, ok := typesByID[b.LeaveTypeID]
		if !ok {
			continue
		}
		resp = append(resp, MyBalanceResponse{
			LeaveTypeID:   b.LeaveTypeID.String(),
			LeaveTypeName: lt.Name,
			Unit:          lt.Unit,
			Year:          b.Year,
			Month:         b.Month,
			Total:         b.Total.String(),
			Remaining:     b.Remaining.String(),
		})
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, myBalancesCacheTTL).Err(); err != nil {
				s.logger.Warn("my-balances cache write failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]BalanceResponse, error) {
	balances, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *service) ManualSet(ctx context.Context, req ManualSetRequest) (BalanceResponse, error) {
	s.logger.Debug("manual balance set requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)

	employeeID := uuid.MustParse(req.EmployeeID)
	leaveTypeID := uuid.MustParse(req.LeaveTypeID)

	total, err := parseAmount(req.Total)
	if err != nil {
		return BalanceResponse{}, err
	}

	lt, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return BalanceResponse{}, err
	}
	if err := validatePeriod(lt.Cadence, req.Month); err != nil {
		return BalanceResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BalanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindForPeriod(ctx, employeeID, leaveTypeID, req.Year, req.Month)
	switch {
	case err == nil:
		if b.IsLocked {
			return BalanceResponse{}, balanceerrors.ErrBalanceLocked
		}
		b.Total = total
		b.Remaining = total
		b.IsManualOverride = true
		if err := qtx.Update(ctx, b); err != nil {
			s.logger.Error("manual balance update failed", zap.Error(err))
			return BalanceResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		b = &LeaveBalance{
			ID:               uuid.New(),
			EmployeeID:       employeeID,
			LeaveTypeID:      leaveTypeID,
			Year:             req.Year,
			Month:            req.Month,
			Total:            total,
			Remaining:        total,
			IsManualOverride: true,
		}
		if err := qtx.Create(ctx, b); err != nil {
			s.logger.Error("manual balance create failed", zap.Error(err))
			return BalanceResponse{}, err
		}
	default:
		return BalanceResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return BalanceResponse{}, err
	}
	s.logger.Info("manual balance set success", zap.String("balance_id", b.ID.String()))

	s.InvalidateCache(ctx, employeeID)
	return mapToResponse(*b), nil
}

func (s *service) BulkRebase(ctx context.Context, req BulkRebaseRequest) (BulkRebaseResponse, error) {
	s.logger.Debug("bulk rebase requested",
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.Bool("protect_manual", req.ProtectManualChanges),
	)

	leaveTypeID := uuid.MustParse(req.LeaveTypeID)

	newTotal, err := parseAmount(req.NewTotal)
	if err != nil {
		return BulkRebaseResponse{}, err
	}

	lt, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BulkRebaseResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return BulkRebaseResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BulkRebaseResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindForRebase(ctx, leaveTypeID, req.Year)
	if err != nil {
		return BulkRebaseResponse{}, err
	}

	count := 0
	touched := make(map[uuid.UUID]bool)
	seen := make(map[uuid.UUID]bool)
	for i := range existing {
		b := &existing[i]
		seen[b.EmployeeID] = true

		if b.IsLocked {
			continue
		}
		if req.ProtectManualChanges && b.IsManualOverride {
			continue
		}

		// Preserve what has already been consumed: shift remaining by
		// the same delta as total.
		delta := newTotal.Sub(b.Total)
		b.Remaining = b.Remaining.Add(delta)
		b.Total = newTotal
		b.IsManualOverride = false
		if err := qtx.Update(ctx, b); err != nil {
			s.logger.Error("bulk rebase update failed", zap.String("balance_id", b.ID.String()), zap.Error(err))
			return BulkRebaseResponse{}, err
		}
		touched[b.EmployeeID] = true
		count++
	}

	// Employees without a row for this period get a fresh one. Monthly
	// types seed lazily per month, so only annual rows are created here.
	if lt.Cadence == leavetype.CadenceAnnual {
		employeeIDs, err := qtx.ListActiveEmployeeIDs(ctx)
		if err != nil {
			return BulkRebaseResponse{}, err
		}
		for _, eid := range employeeIDs {
			if seen[eid] {
				continue
			}
			b := &LeaveBalance{
				ID:          uuid.New(),
				EmployeeID:  eid,
				LeaveTypeID: leaveTypeID,
				Year:        req.Year,
				Total:       newTotal,
				Remaining:   newTotal,
			}
			if err := qtx.Create(ctx, b); err != nil {
				s.logger.Error("bulk rebase create failed", zap.String("employee_id", eid.String()), zap.Error(err))
				return BulkRebaseResponse{}, err
			}
			touched[eid] = true
			count++
		}
	}

	if err := tx.Commit().Error; err != nil {
		return BulkRebaseResponse{}, err
	}
	s.logger.Info("bulk rebase success",
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.Int("updated_count", count),
	)

	for eid := range touched {
		s.InvalidateCache(ctx, eid)
	}
	return BulkRebaseResponse{UpdatedCount: count}, nil
}

func (s *service) InvalidateCache(ctx context.Context, employeeID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	year := time.Now().UTC().Year()
	if err := s.redisClient.Del(ctx, myBalancesCacheKey(employeeID, year)).Err(); err != nil {
		s.logger.Warn("my-balances cache invalidation failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
	}
}

func myBalancesCacheKey(employeeID uuid.UUID, year int) string {
	return fmt.Sprintf("leavedesk:my-balances:%s:%d", employeeID, year)
}

func parseAmount(v string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(v)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, balanceerrors.ErrInvalidAmount
	}
	return amount, nil
}

func validatePeriod(cadence string, month *int) error {
	if cadence == leavetype.CadenceMonthly {
		if month == nil || *month < 1 || *month > 12 {
			return balanceerrors.ErrInvalidPeriod
		}
		return nil
	}
	if month != nil {
		return balanceerrors.ErrInvalidPeriod
	}
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:               b.ID.String(),
		EmployeeID:       b.EmployeeID.String(),
		LeaveTypeID:      b.LeaveTypeID.String(),
		Year:             b.Year,
		Month:            b.Month,
		Total:            b.Total.String(),
		Remaining:        b.Remaining.String(),
		IsManualOverride: b.IsManualOverride,
		IsLocked:         b.IsLocked,
	}
}
