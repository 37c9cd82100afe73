package reports

import (
	"context"
	"fmt"
	"time"
)

// Service is the report engine. All operations are pure reads over the
// ledger; empty data yields zero-filled reports rather than errors.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// TrialBalance sums debit and credit activity per account over the range.
func (s *Service) TrialBalance(ctx context.Context, ownerID int64, from, to *time.Time) (Report, error) {
	f, t := NormalizeRange(s.now(), from, to)
	return s.build(ctx, ownerID, rangeKey("tb", f, t), f, t, BuildTrialBalance)
}

// BalanceSheet is a single-instant report: from = to = asOf, defaulting to
// today.
func (s *Service) BalanceSheet(ctx context.Context, ownerID int64, asOf *time.Time) (Report, error) {
	day := truncateDay(s.now())
	if asOf != nil {
		day = truncateDay(*asOf)
	}
	key := rangeKey("bs", day, day)
	if cached, ok := s.cache.Get(ctx, ownerID, key); ok {
		return cached, nil
	}
	rows, err := s.repo.ActivityRows(ctx, ownerID, day, day)
	if err != nil {
		return Report{}, err
	}
	report := BuildBalanceSheet(day, rows)
	s.cache.Set(ctx, ownerID, key, report)
	return report, nil
}

// ProfitLoss sums income and expense activity per account over the range.
func (s *Service) ProfitLoss(ctx context.Context, ownerID int64, from, to *time.Time) (Report, error) {
	f, t := NormalizeRange(s.now(), from, to)
	return s.build(ctx, ownerID, rangeKey("pl", f, t), f, t, BuildProfitLoss)
}

func (s *Service) build(ctx context.Context, ownerID int64, key string, from, to time.Time, builder func(time.Time, time.Time, []AccountActivity) Report) (Report, error) {
	if cached, ok := s.cache.Get(ctx, ownerID, key); ok {
		return cached, nil
	}
	rows, err := s.repo.ActivityRows(ctx, ownerID, from, to)
	if err != nil {
		return Report{}, err
	}
	report := builder(from, to, rows)
	s.cache.Set(ctx, ownerID, key, report)
	return report, nil
}

func rangeKey(report string, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s", report, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
