package response_models

import (
	"encoding/json"
	"time"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type SubscriptionPlan struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Interval    string          `json:"interval"` // "monthly" | "yearly"
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	Purchasable bool            `json:"purchasable"`
	Features    []string        `json:"features,omitempty"`
}

func NewSubscriptionPlan(p *db_models.Plan) *SubscriptionPlan {
	if p == nil {
		return nil
	}
	out := &SubscriptionPlan{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Interval:    string(p.Interval),
		Price:       p.Price,
		IsActive:    p.IsActive,
		Purchasable: p.Purchasable(),
	}
	if len(p.Features) > 0 {
		_ = json.Unmarshal(p.Features, &out.Features)
	}
	return out
}

type PlansPageResponse struct {
	Plans           []SubscriptionPlan `json:"plans"`
	ActivePlanIDs   []uuid.UUID        `json:"active_plan_ids,omitempty"`
	CanceledPlanIDs []uuid.UUID        `json:"canceled_plan_ids,omitempty"`
	CurrentPlan     *SubscriptionPlan  `json:"current_plan,omitempty"`
}

type SubscriptionStatusResponse struct {
	ID              uuid.UUID         `json:"id"`
	Plan            *SubscriptionPlan `json:"plan"`
	Status          string            `json:"status"`
	StartDate       string            `json:"start_date"`
	EndDate         *string           `json:"end_date"`
	NextPaymentDate *string           `json:"next_payment_date"`
	IsActive        bool              `json:"is_active"`
}

func NewSubscriptionStatus(s *db_models.Subscription) *SubscriptionStatusResponse {
	if s == nil {
		return nil
	}
	return &SubscriptionStatusResponse{
		ID:              s.ID,
		Plan:            NewSubscriptionPlan(s.Plan),
		Status:          string(s.Status),
		StartDate:       s.StartDate.Format(DateLayout),
		EndDate:         formatDate(s.EndDate),
		NextPaymentDate: formatDate(s.NextPaymentDate),
		IsActive:        s.IsActive(),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
