package repositories

import (
	"context"
	"errors"
	"strings"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type ProductRepository interface {
	Insert(ctx context.Context, product *db_models.Product) error
	List(ctx context.Context, filter ProductFilter) ([]db_models.Product, error)
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Product, error)
	FindByIds(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Product, error)
	// DecrementStock subtracts qty only if enough stock remains and reports
	// whether the row was updated.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Insert(ctx context.Context, product *db_models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]db_models.Product, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Product{})

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var products []db_models.Product
	if err := q.Order("created_at DESC").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Product, error) {
	var product db_models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIds(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Product, error) {
	out := make(map[uuid.UUID]db_models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []db_models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
