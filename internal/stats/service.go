package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/SmartFleet/SmartFleet/internal/common/logger"
)

const (
	dashboardCacheKey = "smartfleet:stats:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// PeriodSummer 按时间段汇总金额（由 maintenance / expense 包实现）。
type PeriodSummer interface {
	SumInPeriod(ctx context.Context, start, end time.Time) (int64, error)
}

// PeriodSumFunc 函数适配器。
type PeriodSumFunc func(ctx context.Context, start, end time.Time) (int64, error)

func (f PeriodSumFunc) SumInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	return f(ctx, start, end)
}

// Service 仪表盘统计。结果经 Redis 缓存，缓存不可用时直接回源。
type Service struct {
	repo        *Repo
	maintenance PeriodSummer
	expense     PeriodSummer
	rdb         *redis.Client
	log         logger.Logger
	now         func() time.Time
}

func NewService(repo *Repo, maintenance, expense PeriodSummer, rdb *redis.Client, log logger.Logger) *Service {
	return &Service{
		repo:        repo,
		maintenance: maintenance,
		expense:     expense,
		rdb:         rdb,
		log:         log,
		now:         time.Now,
	}
}

// Dashboard 返回仪表盘汇总，优先读缓存。
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}
	d, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, d)
	return d, nil
}

func (s *Service) build(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	byStatus, total, err := s.repo.VehiclesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	d.Vehicles.ByStatus, d.Vehicles.Total = byStatus, total

	byStatus, total, err = s.repo.DriversByStatus(ctx)
	if err != nil {
		return nil, err
	}
	d.Drivers.ByStatus, d.Drivers.Total = byStatus, total

	d.Applications.Total, d.Applications.Pending, err = s.repo.ApplicationCounts(ctx)
	if err != nil {
		return nil, err
	}
	d.ActiveAssignments, err = s.repo.ActiveAssignments(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	if s.maintenance != nil {
		d.MonthMaintenanceCents, err = s.maintenance.SumInPeriod(ctx, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
	}
	if s.expense != nil {
		d.MonthExpenseCents, err = s.expense.SumInPeriod(ctx, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
	}
	d.GeneratedAt = now.Unix()
	return &d, nil
}

func (s *Service) fromCache(ctx context.Context) *Dashboard {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		if s.log != nil {
			s.log.Warnf("stats cache get failed: %v", err)
		}
		return nil
	}
	var d Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}

func (s *Service) toCache(ctx context.Context, d *Dashboard) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil && s.log != nil {
		s.log.Warnf("stats cache set failed: %v", err)
	}
}
