package usecase

import (
	"context"
	"time"

	"ferreinti-backend/internal/domain"
	"ferreinti-backend/pkg/cache"

	"github.com/jackc/pgx/v5/pgxpool"
)

const cacheKeyDashboard = "stats:dashboard"

// StatsUsecase serves the admin dashboard. The aggregates run raw SQL
// against the pool instead of going through the repositories; they cut
// across orders, products and users and are cached as one blob.
type StatsUsecase struct {
	db                *pgxpool.Pool
	cache             cache.CacheService
	statsTTL          time.Duration
	lowStockThreshold int
}

func NewStatsUsecase(db *pgxpool.Pool, cacheService cache.CacheService, statsTTL time.Duration, lowStockThreshold int) *StatsUsecase {
	return &StatsUsecase{
		db:                db,
		cache:             cacheService,
		statsTTL:          statsTTL,
		lowStockThreshold: lowStockThreshold,
	}
}

type DashboardStats struct {
	TotalOrders   int64            `json:"totalOrders"`
	TotalProducts int64            `json:"totalProducts"`
	TotalUsers    int64            `json:"totalUsers"`
	PendingOrders int64            `json:"pendingOrders"`
	RevenueToday  float64          `json:"revenueToday"`
	RevenueWeek   float64          `json:"revenueWeek"`
	RevenueMonth  float64          `json:"revenueMonth"`
	LowStock      []LowStockItem   `json:"lowStock"`
	TopProducts   []TopProductItem `json:"topProducts"`
}

type LowStockItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

type TopProductItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitsSold int64  `json:"unitsSold"`
}

func (u *StatsUsecase) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	if cached, found := u.cache.Get(cacheKeyDashboard); found {
		if stats, ok := cached.(*DashboardStats); ok {
			return stats, nil
		}
	}

	stats := &DashboardStats{}

	err := u.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM orders WHERE status = $1)`,
		domain.OrderStatusPending,
	).Scan(&stats.TotalOrders, &stats.TotalProducts, &stats.TotalUsers, &stats.PendingOrders)
	if err != nil {
		return nil, err
	}

	// Revenue excludes cancelled orders.
	err = u.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE created_at >= date_trunc('day', now())), 0),
			COALESCE(SUM(total) FILTER (WHERE created_at >= now() - interval '7 days'), 0),
			COALESCE(SUM(total) FILTER (WHERE created_at >= now() - interval '30 days'), 0)
		FROM orders WHERE status != 'cancelled'`,
	).Scan(&stats.RevenueToday, &stats.RevenueWeek, &stats.RevenueMonth)
	if err != nil {
		return nil, err
	}

	lowStock, err := u.lowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStock = lowStock

	topProducts, err := u.topProducts(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = topProducts

	u.cache.Set(cacheKeyDashboard, stats, u.statsTTL)
	return stats, nil
}

func (u *StatsUsecase) lowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := u.db.Query(ctx, `
		SELECT id, name, stock FROM products
		WHERE stock < $1
		ORDER BY stock ASC
		LIMIT 10`, u.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LowStockItem, 0)
	for rows.Next() {
		var item LowStockItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Stock); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// topProducts unnests the order items snapshot; there is no separate
// order_items table, the items live as jsonb on each order row.
func (u *StatsUsecase) topProducts(ctx context.Context) ([]TopProductItem, error) {
	rows, err := u.db.Query(ctx, `
		SELECT
			item->>'productId' AS product_id,
			max(item->>'name') AS name,
			SUM((item->>'quantity')::bigint) AS units_sold
		FROM orders, jsonb_array_elements(items) AS item
		WHERE status != 'cancelled'
		GROUP BY item->>'productId'
		ORDER BY units_sold DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TopProductItem, 0)
	for rows.Next() {
		var item TopProductItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitsSold); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
