package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	dbm "fithub/internal/models/db_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	lowStockThreshold = 5
	lowStockListLimit = 10
	recentOrdersLimit = 5
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange, currency string) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange, now time.Time) resp.TimeRange {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = now.UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30) // last 30 days default
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func monthlyEquivalentCents(price decimal.Decimal, interval string) int64 {
	cents := dbm.ToCents(price)
	switch interval {
	case string(dbm.IntervalMonthly):
		return cents
	case string(dbm.IntervalYearly):
		// Integer floor division
		return cents / 12
	default:
		return 0
	}
}

// bucketStart truncates t (UTC) to the start of its day, ISO week or month.
func bucketStart(t time.Time, interval string) time.Time {
	d := utils.Today(t)
	switch interval {
	case "week":
		offset := (int(d.Weekday()) + 6) % 7 // Monday starts the week
		return d.AddDate(0, 0, -offset)
	case "month":
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

func bucketize(rows []repositories.AmountAt, interval string) ([]resp.SeriesPoint, int64) {
	var points []resp.SeriesPoint
	var total int64
	index := map[time.Time]int{}
	for _, r := range rows {
		b := bucketStart(time.Unix(r.At, 0), interval)
		i, ok := index[b]
		if !ok {
			i = len(points)
			index[b] = i
			points = append(points, resp.SeriesPoint{Bucket: b})
		}
		points[i].Value += r.Amount
		total += r.Amount
	}
	return points, total
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange, currency string) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng, s.now())

	// ---------- Core counts ----------
	totalAccounts, err := s.repo.CountTotalAccounts(ctx)
	if err != nil {
		return nil, utils.DBError("count accounts", err)
	}
	newAccounts, err := s.repo.CountNewAccounts(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.DBError("count new accounts", err)
	}
	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, utils.DBError("count products", err)
	}

	orderRows, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, utils.DBError("count orders", err)
	}
	ordersByStatus := make(map[string]int64, len(orderRows))
	for _, r := range orderRows {
		ordersByStatus[r.Status] = r.Count
	}

	subRows, err := s.repo.CountSubscriptionsByStatus(ctx)
	if err != nil {
		return nil, utils.DBError("count subscriptions", err)
	}
	subsByStatus := make(map[string]int64, len(subRows))
	for _, r := range subRows {
		subsByStatus[r.Status] = r.Count
	}

	// ---------- Series ----------
	revenueRows, err := s.repo.PaidOrdersBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.DBError("paid orders", err)
	}
	revenuePoints, totalRevenue := bucketize(revenueRows, rng.Interval)

	newUserRows, err := s.repo.AccountsCreatedBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.DBError("new accounts series", err)
	}
	newUserPoints, _ := bucketize(newUserRows, rng.Interval)

	// ---------- Financials: MRR/ARR/ARPU ----------
	activeWithPlan, err := s.repo.ActiveSubscriptionsWithPlan(ctx)
	if err != nil {
		return nil, utils.DBError("active subscriptions", err)
	}
	var mrr int64
	for _, row := range activeWithPlan {
		mrr += monthlyEquivalentCents(decimal.NewFromFloat(row.Price), row.Interval)
	}
	var arpu float64
	if n := len(activeWithPlan); n > 0 {
		arpu = float64(mrr) / float64(n)
	}

	// ---------- Plan mix ----------
	planRows, err := s.repo.PlanMix(ctx)
	if err != nil {
		return nil, utils.DBError("plan mix", err)
	}
	var totalActive float64
	for _, r := range planRows {
		totalActive += float64(r.Count)
	}
	planMix := make([]resp.PlanMixItem, 0, len(planRows))
	for _, r := range planRows {
		var pct float64
		if totalActive > 0 {
			pct = float64(r.Count) * 100.0 / totalActive
		}
		id, _ := uuid.Parse(r.PlanID)
		planMix = append(planMix, resp.PlanMixItem{
			PlanID:     id,
			PlanName:   r.PlanName,
			Interval:   r.Interval,
			Count:      r.Count,
			Percent:    pct,
			PriceCents: dbm.ToCents(decimal.NewFromFloat(r.Price)),
		})
	}

	// ---------- Stock ----------
	lowStock, err := s.repo.LowStockProducts(ctx, lowStockThreshold, lowStockListLimit)
	if err != nil {
		return nil, utils.DBError("low stock products", err)
	}
	lowStockItems := make([]resp.LowStockItem, 0, len(lowStock))
	for _, p := range lowStock {
		lowStockItems = append(lowStockItems, resp.LowStockItem{ID: p.ID, Name: p.Name, Stock: p.Stock})
	}

	// ---------- Recent orders ----------
	recentRows, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, utils.DBError("recent orders", err)
	}
	recent := make([]resp.RecentOrder, 0, len(recentRows))
	for _, r := range recentRows {
		id, _ := uuid.Parse(r.ID)
		recent = append(recent, resp.RecentOrder{
			ID:         id,
			CreatedAt:  time.Unix(r.CreatedAt, 0).UTC(),
			TotalCents: r.TotalCents,
			Status:     r.Status,
			Username:   r.Username,
		})
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs: resp.KPIBlock{
			TotalAccounts:    totalAccounts,
			NewAccounts:      newAccounts,
			TotalProducts:    totalProducts,
			LowStockProducts: int64(len(lowStock)),
			OrdersByStatus:   ordersByStatus,
			SubsByStatus:     subsByStatus,
			PaidRevenueCents: totalRevenue,
			MRRCents:         mrr,
			ARRCents:         mrr * 12,
			ARPUCents:        arpu,
		},
		Revenue: resp.RevenueSeries{
			Currency:   currency,
			Points:     revenuePoints,
			TotalCents: totalRevenue,
		},
		NewUsers:     resp.CountSeries{Points: newUserPoints},
		PlanMix:      planMix,
		LowStock:     lowStockItems,
		RecentOrders: recent,
	}, nil
}
