package controllers

import (
	"errors"
	"net/http"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account with an empty profile and log the user in
// @Tags Accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request formData request_models.SignUpRequest true "Sign-up form"
// @Success 200 {object} utils.APIResponse "form with field errors"
// @Success 302 "redirect to /profile/edit"
// @Router /accounts/signup [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if errs := bindForm(c, &req); len(errs) > 0 {
		req.Password, req.PasswordConfirm = "", ""
		utils.RespondForm(c, req, errs)
		return
	}

	account, err := a.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrUsernameTaken) {
			req.Password, req.PasswordConfirm = "", ""
			utils.RespondForm(c, req, utils.FieldErrors{"username": {"A user with that username already exists."}})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	if err := utils.LoginSession(c, account.ID, account.Role()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Flash(c, utils.FlashSuccess, "Welcome to FitLife Hub! Tell us about your fitness goals.")
	utils.Redirect(c, "/profile/edit")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user, bind the session and return a bearer token
// @Tags Accounts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request formData request_models.LoginRequest true "Login form"
// @Param next query string false "Where the browser should go next"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if errs := bindForm(c, &req); len(errs) > 0 {
		req.Password = ""
		utils.RespondForm(c, req, errs)
		return
	}

	result, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	role := db_models.RoleUser
	if result.Account.IsStaff {
		role = db_models.RoleStaff
	}
	if err := utils.LoginSession(c, result.Account.ID, role); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	next := safeRedirectTarget(c.DefaultQuery("next", c.PostForm("next")), "/")
	utils.RespondSuccess(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"account":    result.Account,
		"next":       next,
	}, "Login successful")
}

// LoginPage godoc
// @Summary Login form
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /accounts/login [get]
func (a *AccountController) LoginPage(c *gin.Context) {
	utils.RespondForm(c, gin.H{"username": "", "next": c.Query("next")}, nil)
}

// Logout godoc
// @Summary Logout
// @Tags Accounts
// @Success 302 "redirect to /"
// @Router /accounts/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	if err := utils.LogoutSession(c); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Could not end session")
		return
	}
	utils.Redirect(c, "/")
}
