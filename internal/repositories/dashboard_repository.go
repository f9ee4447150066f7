package repositories

import (
	"context"
	"time"

	dbm "fithub/internal/models/db_models"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	// KPIs / counts
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	CountSubscriptionsByStatus(ctx context.Context) ([]StatusCount, error)

	// Raw points; bucketing happens in the service so it stays dialect-free.
	PaidOrdersBetween(ctx context.Context, start, end time.Time) ([]AmountAt, error)
	AccountsCreatedBetween(ctx context.Context, start, end time.Time) ([]AmountAt, error)

	// MRR compute helpers
	ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error)

	// Plan mix (active subs)
	PlanMix(ctx context.Context) ([]PlanMixRow, error)

	LowStockProducts(ctx context.Context, threshold, limit int) ([]dbm.Product, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

// AmountAt is one data point: a unix-second timestamp and a value.
type AmountAt struct {
	At     int64 `gorm:"column:at"`
	Amount int64 `gorm:"column:amount"`
}

type SubWithPlan struct {
	SubID    string  `gorm:"column:sub_id"`
	PlanID   string  `gorm:"column:plan_id"`
	Interval string  `gorm:"column:interval_name"`
	Price    float64 `gorm:"column:price"`
}

type PlanMixRow struct {
	PlanID   string  `gorm:"column:plan_id"`
	PlanName string  `gorm:"column:plan_name"`
	Interval string  `gorm:"column:interval_name"`
	Price    float64 `gorm:"column:price"`
	Count    int64   `gorm:"column:count"`
}

type RecentOrderRow struct {
	ID         string `gorm:"column:id"`
	CreatedAt  int64  `gorm:"column:created_at"`
	TotalCents int64  `gorm:"column:total_cents"`
	Status     string `gorm:"column:status"`
	Username   string `gorm:"column:username"`
}

// ---------- Counts ----------
func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Product{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountOrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountSubscriptionsByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	return rows, err
}

// ---------- Series ----------
func (r *dashboardRepository) PaidOrdersBetween(ctx context.Context, start, end time.Time) ([]AmountAt, error) {
	var rows []AmountAt
	err := r.db.WithContext(ctx).
		Model(&dbm.Order{}).
		Select("created_at AS at, total_cents AS amount").
		Where("status IN ?", []dbm.OrderStatus{dbm.OrderStatusPaid, dbm.OrderStatusShipped}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) AccountsCreatedBetween(ctx context.Context, start, end time.Time) ([]AmountAt, error) {
	var rows []AmountAt
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select("created_at AS at, 1 AS amount").
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ---------- MRR helpers ----------
func (r *dashboardRepository) ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error) {
	var rows []SubWithPlan
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select("s.id AS sub_id, s.plan_id, p.billing_interval AS interval_name, p.price").
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.status = ? AND s.deleted_at IS NULL", dbm.SubStatusActive).
		Find(&rows).Error
	return rows, err
}

// ---------- Plan mix ----------
func (r *dashboardRepository) PlanMix(ctx context.Context) ([]PlanMixRow, error) {
	var rows []PlanMixRow
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select(`
			s.plan_id,
			p.name AS plan_name,
			p.billing_interval AS interval_name,
			p.price AS price,
			COUNT(*) AS count`).
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.status = ? AND s.deleted_at IS NULL", dbm.SubStatusActive).
		Group("s.plan_id, p.name, p.billing_interval, p.price").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) LowStockProducts(ctx context.Context, threshold, limit int) ([]dbm.Product, error) {
	var products []dbm.Product
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ---------- Recent orders ----------
func (r *dashboardRepository) RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error) {
	var rows []RecentOrderRow
	err := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.id, o.created_at, o.total_cents, o.status, a.username").
		Joins("LEFT JOIN accounts a ON a.id = o.account_id").
		Where("o.deleted_at IS NULL").
		Order("o.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
