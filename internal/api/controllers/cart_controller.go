package controllers

import (
	"net/http"

	"fithub/internal/models/request_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService services.CartServiceInterface
}

func NewCartController(cartService services.CartServiceInterface) *CartController {
	return &CartController{cartService: cartService}
}

// ViewCart godoc
// @Summary Cart contents
// @Tags Cart
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse "a cart product no longer exists"
// @Router /cart [get]
func (cc *CartController) ViewCart(c *gin.Context) {
	view, err := cc.cartService.View(c.Request.Context(), loadCart(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Adds quantity (default 1) units. Stock is checked at checkout, not here.
// @Tags Cart
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity formData int false "Units to add"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /cart/add/{id} [post]
func (cc *CartController) AddToCart(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request_models.CartQuantityRequest
	_ = c.ShouldBind(&req)
	qty, err := quantityParam(req.Quantity, 1)
	if err != nil || qty < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Quantity must be a positive whole number")
		return
	}

	cart := loadCart(c)
	if err := cc.cartService.Add(c.Request.Context(), cart, productID, qty); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if err := saveCart(c, cart); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp.CartSizeResponse{CartSize: cart.Size()}, "Added to cart")
}

// UpdateCart godoc
// @Summary Set a cart quantity
// @Description A quantity of zero or less removes the line.
// @Tags Cart
// @Param id path string true "Product ID"
// @Param quantity formData int true "New quantity"
// @Success 302 "redirect to /cart"
// @Router /cart/update/{id} [post]
func (cc *CartController) UpdateCart(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request_models.CartQuantityRequest
	_ = c.ShouldBind(&req)
	qty, err := quantityParam(req.Quantity, 0)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Quantity must be a whole number")
		return
	}

	cart := loadCart(c)
	cart.Set(productID, qty)
	if !cart.Fits() {
		utils.HandleServiceError(c, utils.ErrCartFull)
		return
	}
	if err := saveCart(c, cart); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Redirect(c, "/cart")
}

// RemoveFromCart godoc
// @Summary Remove a cart line
// @Tags Cart
// @Param id path string true "Product ID"
// @Success 302 "redirect to /cart"
// @Router /cart/remove/{id} [post]
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cart := loadCart(c)
	cart.Remove(productID)
	if err := saveCart(c, cart); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Redirect(c, "/cart")
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags Cart
// @Success 302 "redirect to /cart"
// @Router /cart/clear [post]
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := saveCart(c, services.Cart{}); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Redirect(c, "/cart")
}
