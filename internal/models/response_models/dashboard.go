package response_models

import (
	"time"

	"github.com/google/uuid"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
}

type KPIBlock struct {
	TotalAccounts    int64            `json:"total_accounts"`
	NewAccounts      int64            `json:"new_accounts"`
	TotalProducts    int64            `json:"total_products"`
	LowStockProducts int64            `json:"low_stock_products"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	SubsByStatus     map[string]int64 `json:"subscriptions_by_status"`

	// Financial KPIs, minor units
	PaidRevenueCents int64   `json:"paid_revenue_cents"`
	MRRCents         int64   `json:"mrr_cents"`
	ARRCents         int64   `json:"arr_cents"`
	ARPUCents        float64 `json:"arpu_cents"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type RevenueSeries struct {
	Currency   string        `json:"currency"`
	Points     []SeriesPoint `json:"points"`
	TotalCents int64         `json:"total_cents"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
}

type PlanMixItem struct {
	PlanID     uuid.UUID `json:"plan_id"`
	PlanName   string    `json:"plan_name"`
	Interval   string    `json:"interval"`
	Count      int64     `json:"count"`
	Percent    float64   `json:"percent"`
	PriceCents int64     `json:"price_cents"`
}

type LowStockItem struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
}

type RecentOrder struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	TotalCents int64     `json:"total_cents"`
	Status     string    `json:"status"`
	Username   string    `json:"username"`
}

type DashboardReport struct {
	Range        TimeRange      `json:"range"`
	KPIs         KPIBlock       `json:"kpis"`
	Revenue      RevenueSeries  `json:"revenue"`
	NewUsers     CountSeries    `json:"new_users"`
	PlanMix      []PlanMixItem  `json:"plan_mix"`
	LowStock     []LowStockItem `json:"low_stock"`
	RecentOrders []RecentOrder  `json:"recent_orders"`
}
