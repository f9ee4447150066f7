package controllers

import (
	"errors"
	"net/url"

	"fithub/internal/models/request_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CommunityController struct {
	communityService services.CommunityServiceInterface
}

func NewCommunityController(communityService services.CommunityServiceInterface) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// ListProgress godoc
// @Summary Community progress feed
// @Tags Community
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /community/ [get]
func (cc *CommunityController) ListProgress(c *gin.Context) {
	updates, err := cc.communityService.ListProgress(c.Request.Context(), viewerID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"updates": updates}, "")
}

// NewProgressForm godoc
// @Summary Empty progress update form
// @Tags Community
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /community/progress/new [get]
func (cc *CommunityController) NewProgressForm(c *gin.Context) {
	utils.RespondForm(c, request_models.ProgressUpdateRequest{}, nil)
}

// CreateProgress godoc
// @Summary Post a progress update
// @Tags Community
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title (max 150 characters)"
// @Param content formData string true "Content"
// @Param image formData file false "Image"
// @Success 200 {object} utils.APIResponse "form with field errors"
// @Success 302 "redirect to /community/"
// @Router /community/progress/new [post]
func (cc *CommunityController) CreateProgress(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req request_models.ProgressUpdateRequest
	errs := bindForm(c, &req)
	image, err := readUpload(c, "image")
	if err != nil {
		if errs == nil {
			errs = utils.FieldErrors{}
		}
		errs.Add("image", invalidImageMessage)
	}
	if len(errs) > 0 {
		utils.RespondForm(c, req, errs)
		return
	}

	if _, err := cc.communityService.CreateProgress(c.Request.Context(), accountID, req, image); err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.RespondForm(c, req, utils.FieldErrors{"image": {invalidImageMessage}})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Your progress update has been posted!")
	utils.Redirect(c, "/community/")
}

// DeleteProgress godoc
// @Summary Delete one of the caller's progress updates
// @Tags Community
// @Param id path string true "Progress update ID"
// @Success 302 "redirect to /community/"
// @Failure 404 {object} utils.APIResponse
// @Router /community/progress/{id}/delete [post]
func (cc *CommunityController) DeleteProgress(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	updateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := cc.communityService.DeleteProgress(c.Request.Context(), accountID, updateID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Your progress update has been deleted.")
	utils.Redirect(c, "/community/")
}

// SubscribeNewsletter godoc
// @Summary Newsletter signup
// @Description Always redirects back to the referring page on this site.
// @Tags Community
// @Accept x-www-form-urlencoded
// @Param email formData string true "Email address"
// @Success 302 "redirect to the Referer or /"
// @Router /community/newsletter/subscribe [post]
func (cc *CommunityController) SubscribeNewsletter(c *gin.Context) {
	defer utils.Redirect(c, refererPath(c))

	var req request_models.NewsletterRequest
	if errs := bindForm(c, &req); len(errs) > 0 {
		utils.Flash(c, utils.FlashError, "Please enter a valid email address.")
		return
	}

	created, err := cc.communityService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("newsletter subscribe")
		utils.Flash(c, utils.FlashError, "Something went wrong. Please try again later.")
		return
	}
	if created {
		utils.Flash(c, utils.FlashSuccess, "Thanks for subscribing to our newsletter!")
	} else {
		utils.Flash(c, utils.FlashInfo, "You are already subscribed to our newsletter.")
	}
}

// refererPath keeps the Referer when it points back at this host.
func refererPath(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return "/"
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return safeRedirectTarget(target, "/")
}
