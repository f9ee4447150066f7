package controllers

import (
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService services.OrderServiceInterface
}

func NewOrderController(orderService services.OrderServiceInterface) *OrderController {
	return &OrderController{orderService: orderService}
}

// ListOrders godoc
// @Summary Order history
// @Tags Orders
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /orders [get]
func (o *OrderController) ListOrders(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	orders, err := o.orderService.ListOrders(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"orders": orders}, "")
}

// GetOrder godoc
// @Summary Order detail
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /orders/{id} [get]
func (o *OrderController) GetOrder(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := o.orderService.GetOrder(c.Request.Context(), accountID, orderID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, order, "")
}
