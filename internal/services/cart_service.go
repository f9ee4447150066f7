package services

import (
	"context"
	"sort"

	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type CartServiceInterface interface {
	// Add puts qty units of an existing product in the cart. Stock is not checked.
	// The cart is left unchanged with ErrCartFull once it would no longer fit
	// a single checkout.
	Add(ctx context.Context, cart Cart, productID uuid.UUID, qty int) error
	// View resolves every line. A product that no longer exists is an error.
	View(ctx context.Context, cart Cart) (*resp.CartResponse, error)
}

type CartService struct {
	productRepo repositories.ProductRepository
}

func NewCartService(productRepo repositories.ProductRepository) CartServiceInterface {
	return &CartService{productRepo: productRepo}
}

func (s *CartService) Add(ctx context.Context, cart Cart, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return pkgerrors.Wrap(utils.ErrInvalidInput, "quantity must be at least 1")
	}
	product, err := s.productRepo.FindById(ctx, productID)
	if err != nil {
		return utils.DBError("find product", err)
	}
	if product == nil {
		return utils.ErrProductNotFound
	}
	previous, had := cart[productID]
	cart.Add(productID, qty)
	if !cart.Fits() {
		if had {
			cart[productID] = previous
		} else {
			cart.Remove(productID)
		}
		return pkgerrors.Wrapf(utils.ErrCartFull, "%d different products", cart.Size())
	}
	return nil
}

func (s *CartService) View(ctx context.Context, cart Cart) (*resp.CartResponse, error) {
	return buildCartView(ctx, s.productRepo, cart)
}

func buildCartView(ctx context.Context, productRepo repositories.ProductRepository, cart Cart) (*resp.CartResponse, error) {
	ids := cart.ProductIDs()
	products, err := productRepo.FindByIds(ctx, ids)
	if err != nil {
		return nil, utils.DBError("find cart products", err)
	}

	out := &resp.CartResponse{
		Items: make([]resp.CartLineResponse, 0, len(ids)),
		Total: decimal.Zero,
		Count: len(ids),
	}
	for _, id := range ids {
		product, ok := products[id]
		if !ok {
			return nil, pkgerrors.Wrapf(utils.ErrProductNotFound, "cart product %s", id)
		}
		qty := cart[id]
		line := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		out.Items = append(out.Items, resp.CartLineResponse{
			Product:   resp.NewProductResponse(product),
			Quantity:  qty,
			LineTotal: line,
		})
		out.Total = out.Total.Add(line)
	}

	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].Product.Name < out.Items[j].Product.Name
	})
	return out, nil
}
