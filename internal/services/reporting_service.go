package services

import (
	"context"
	"encoding/json"
	"time"

	"bazaar/internal/cache"
	"bazaar/internal/repos"

	"golang.org/x/sync/singleflight"
)

const statsKey = "reporting:stats"

// Stats is the dashboard summary the admin API serves.
type Stats struct {
	Orders      int               `json:"orders"`
	Revenue     float64           `json:"revenue"`
	TopProducts []repos.TopProduct `json:"top_products"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ReportingService computes dashboard figures behind a cache port.
// Concurrent cache misses collapse into a single recomputation.
type ReportingService struct {
	Orders *repos.OrderRepo
	Cache  cache.Cache
	TTL    time.Duration

	group singleflight.Group
}

func NewReportingService(orders *repos.OrderRepo, c cache.Cache, ttl time.Duration) *ReportingService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportingService{Orders: orders, Cache: c, TTL: ttl}
}

func (s *ReportingService) Stats(ctx context.Context) (Stats, error) {
	if raw, ok, err := s.Cache.Get(ctx, statsKey); err == nil && ok {
		var st Stats
		if json.Unmarshal(raw, &st) == nil {
			return st, nil
		}
	}

	v, err, _ := s.group.Do(statsKey, func() (any, error) {
		if raw, ok, err := s.Cache.Get(ctx, statsKey); err == nil && ok {
			var st Stats
			if json.Unmarshal(raw, &st) == nil {
				return st, nil
			}
		}
		st, err := s.compute()
		if err != nil {
			return Stats{}, err
		}
		if raw, err := json.Marshal(st); err == nil {
			_ = s.Cache.Set(ctx, statsKey, raw, s.TTL)
		}
		return st, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

func (s *ReportingService) compute() (Stats, error) {
	n, revenue, err := s.Orders.CountAndRevenue()
	if err != nil {
		return Stats{}, err
	}
	top, err := s.Orders.TopProducts(5)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Orders: n, Revenue: revenue, TopProducts: top, GeneratedAt: time.Now().UTC()}, nil
}

// InvalidateStats implements StatsInvalidator; checkout and status changes
// call it so the dashboard never shows a stale committed order for long.
func (s *ReportingService) InvalidateStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Cache.Invalidate(ctx, statsKey)
}
