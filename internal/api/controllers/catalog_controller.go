package controllers

import (
	"strings"

	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
}

func NewCatalogController(catalogService services.CatalogServiceInterface) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListProducts godoc
// @Summary Product catalog
// @Description Lists products; q matches name or description, prices filter inclusively. Unparsable prices are ignored.
// @Tags Catalog
// @Produce json
// @Param q query string false "Search text"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Success 200 {object} utils.APIResponse
// @Router / [get]
func (p *CatalogController) ListProducts(c *gin.Context) {
	filter := repositories.ProductFilter{Query: strings.TrimSpace(c.Query("q"))}
	filter.MinPrice = priceParam(c.Query("min_price"))
	filter.MaxPrice = priceParam(c.Query("max_price"))

	products, err := p.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.CatalogResponse{
		Products: products,
		Query:    filter.Query,
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
	}, "")
}

// GetProduct godoc
// @Summary Product detail
// @Description Product with its reviews, newest first
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /products/{id} [get]
func (p *CatalogController) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := p.catalogService.GetProductDetail(c.Request.Context(), id, viewerID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "")
}

func priceParam(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
