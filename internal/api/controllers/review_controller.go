package controllers

import (
	"fithub/internal/models/request_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService services.ReviewServiceInterface
}

func NewReviewController(reviewService services.ReviewServiceInterface) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// SubmitReview godoc
// @Summary Review a product
// @Tags Reviews
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Product ID"
// @Param request formData request_models.ReviewRequest true "Review form"
// @Success 200 {object} utils.APIResponse "form with field errors"
// @Success 302 "redirect to the product"
// @Failure 404 {object} utils.APIResponse
// @Router /products/{id}/review [post]
func (r *ReviewController) SubmitReview(c *gin.Context) {
	r.submit(c, "id")
}

// CreateReview is the same form posted to /reviews/create/{product_id}.
func (r *ReviewController) CreateReview(c *gin.Context) {
	r.submit(c, "product_id")
}

func (r *ReviewController) submit(c *gin.Context, param string) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, param)
	if !ok {
		return
	}

	var req request_models.ReviewRequest
	if errs := bindForm(c, &req); len(errs) > 0 {
		utils.RespondForm(c, req, errs)
		return
	}

	if _, err := r.reviewService.Submit(c.Request.Context(), accountID, productID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Thanks for your review!")
	utils.Redirect(c, "/products/"+productID.String())
}

// EditReviewForm godoc
// @Summary Review edit form
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /reviews/{id}/edit [get]
func (r *ReviewController) EditReviewForm(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	review, err := r.reviewService.GetOwned(c.Request.Context(), accountID, reviewID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondForm(c, gin.H{
		"rating":     review.Rating,
		"comment":    review.Comment,
		"product_id": review.ProductID,
	}, nil)
}

// EditReview godoc
// @Summary Update a review
// @Tags Reviews
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Review ID"
// @Param request formData request_models.ReviewRequest true "Review form"
// @Success 302 "redirect to the product"
// @Failure 404 {object} utils.APIResponse
// @Router /reviews/{id}/edit [post]
func (r *ReviewController) EditReview(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// Ownership first so strangers get a 404 rather than form errors.
	if _, err := r.reviewService.GetOwned(c.Request.Context(), accountID, reviewID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var req request_models.ReviewRequest
	if errs := bindForm(c, &req); len(errs) > 0 {
		utils.RespondForm(c, req, errs)
		return
	}

	review, err := r.reviewService.Update(c.Request.Context(), accountID, reviewID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Your review was updated.")
	utils.Redirect(c, "/products/"+review.ProductID.String())
}

// DeleteReview godoc
// @Summary Delete a review
// @Tags Reviews
// @Param id path string true "Review ID"
// @Success 302 "redirect to the product"
// @Failure 404 {object} utils.APIResponse
// @Router /reviews/{id}/delete [post]
func (r *ReviewController) DeleteReview(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	productID, err := r.reviewService.Delete(c.Request.Context(), accountID, reviewID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Your review was deleted.")
	utils.Redirect(c, "/products/"+productID.String())
}
