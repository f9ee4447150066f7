// Package router wires every controller onto a gin engine.
package router

import (
	"net/http"

	"fithub/config"
	"fithub/internal/api/controllers"
	"fithub/internal/models/db_models"
	"fithub/pkg/middleware"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const loginPath = "/accounts/login"

type Params struct {
	fx.In

	Config *config.Config
	Tokens *utils.TokenManager
	DB     *gorm.DB

	Accounts      *controllers.AccountController
	Catalog       *controllers.CatalogController
	Reviews       *controllers.ReviewController
	Cart          *controllers.CartController
	Payments      *controllers.PaymentController
	Orders        *controllers.OrderController
	Subscriptions *controllers.SubscriptionController
	Profile       *controllers.ProfileController
	Community     *controllers.CommunityController
	Dashboard     *controllers.DashboardController
}

func NewRouter(p Params) *gin.Engine {
	if !p.Config.Env.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(p.Config.HTTP.CORSOrigins))
	r.Use(middleware.SessionMiddleware(p.Config.Session))
	r.Use(middleware.AuthMiddleware(p.Tokens))

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p Params) {
	loginRequired := middleware.LoginRequired(loginPath)

	r.GET("/healthz", healthz(p.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", p.Catalog.ListProducts)
	r.GET("/products/:id", p.Catalog.GetProduct)
	r.POST("/products/:id/review", loginRequired, p.Reviews.SubmitReview)

	accounts := r.Group("/accounts")
	{
		accounts.POST("/signup", p.Accounts.Register)
		accounts.GET("/login", p.Accounts.LoginPage)
		accounts.POST("/login", p.Accounts.Login)
		accounts.POST("/logout", p.Accounts.Logout)
	}

	reviews := r.Group("/reviews", loginRequired)
	{
		reviews.POST("/create/:product_id", p.Reviews.CreateReview)
		reviews.GET("/:id/edit", p.Reviews.EditReviewForm)
		reviews.POST("/:id/edit", p.Reviews.EditReview)
		reviews.POST("/:id/delete", p.Reviews.DeleteReview)
	}

	cart := r.Group("/cart", loginRequired)
	{
		cart.GET("", p.Cart.ViewCart)
		cart.POST("/add/:id", p.Cart.AddToCart)
		cart.POST("/update/:id", p.Cart.UpdateCart)
		cart.POST("/remove/:id", p.Cart.RemoveFromCart)
		cart.POST("/clear", p.Cart.ClearCart)
	}

	checkout := r.Group("", loginRequired)
	{
		checkout.GET("/checkout", p.Payments.CheckoutSummary)
		checkout.POST("/checkout", p.Payments.CreateCheckout)
		checkout.POST("/checkout/oneoff/:id", p.Payments.CreateProductCheckout)
		checkout.POST("/buy-now/:id", p.Payments.BuyNow)
		checkout.GET("/checkout/success", p.Payments.CheckoutSuccess)
		checkout.GET("/checkout/cancel", p.Payments.CheckoutCancel)
	}
	r.POST("/webhook/oneoff", p.Payments.OrderWebhook)

	orders := r.Group("/orders", loginRequired)
	{
		orders.GET("", p.Orders.ListOrders)
		orders.GET("/:id", p.Orders.GetOrder)
	}

	subs := r.Group("/subscriptions")
	{
		subs.GET("/plans", p.Subscriptions.ListPlans)
		subs.POST("/webhook", p.Subscriptions.SubscriptionWebhook)
		subs.POST("/subscribe/:plan_id", loginRequired, p.Subscriptions.Subscribe)
		subs.GET("/my", loginRequired, p.Subscriptions.MySubscription)
		subs.GET("/success", loginRequired, p.Subscriptions.SubscriptionSuccess)
		subs.GET("/cancel", loginRequired, p.Subscriptions.SubscriptionCancel)
		subs.POST("/cancel/:sub_id", loginRequired, p.Subscriptions.CancelSubscription)
	}

	profile := r.Group("/profile", loginRequired)
	{
		profile.GET("", p.Profile.GetProfile)
		profile.GET("/edit", p.Profile.EditProfileForm)
		profile.POST("/edit", p.Profile.EditProfile)
	}

	community := r.Group("/community")
	{
		community.GET("/", p.Community.ListProgress)
		community.POST("/newsletter/subscribe", p.Community.SubscribeNewsletter)
		community.GET("/progress/new", loginRequired, p.Community.NewProgressForm)
		community.POST("/progress/new", loginRequired, p.Community.CreateProgress)
		community.POST("/progress/:id/delete", loginRequired, p.Community.DeleteProgress)
	}

	r.GET("/admin-dashboard", loginRequired, middleware.RoleMiddleware(db_models.RoleStaff), p.Dashboard.GetDashboard)
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
