package controllers

import (
	"errors"

	"fithub/internal/models/request_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
}

func NewProfileController(profileService services.ProfileServiceInterface) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile godoc
// @Summary The caller's profile page
// @Description Profile, current subscription, days until the next payment and recent progress updates.
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.ProfilePageResponse}
// @Router /profile [get]
func (p *ProfileController) GetProfile(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	page, err := p.profileService.GetProfilePage(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// EditProfileForm godoc
// @Summary Profile form with current values
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /profile/edit [get]
func (p *ProfileController) EditProfileForm(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := p.profileService.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondForm(c, request_models.ProfileRequest{
		Bio:         profile.Bio,
		FitnessGoal: profile.FitnessGoal,
	}, nil)
}

// EditProfile godoc
// @Summary Update the caller's profile
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param bio formData string false "Bio"
// @Param fitness_goal formData string false "Fitness goal (max 100 characters)"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} utils.APIResponse "form with field errors"
// @Success 302 "redirect to /profile"
// @Router /profile/edit [post]
func (p *ProfileController) EditProfile(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req request_models.ProfileRequest
	errs := bindForm(c, &req)
	avatar, err := readUpload(c, "avatar")
	if err != nil {
		if errs == nil {
			errs = utils.FieldErrors{}
		}
		errs.Add("avatar", invalidImageMessage)
	}
	if len(errs) > 0 {
		utils.RespondForm(c, req, errs)
		return
	}

	if _, err := p.profileService.UpdateProfile(c.Request.Context(), accountID, req, avatar); err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.RespondForm(c, req, utils.FieldErrors{"avatar": {invalidImageMessage}})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Your profile has been updated.")
	utils.Redirect(c, "/profile")
}
