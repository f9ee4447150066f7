package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"fithub/config"
	"fithub/internal/api/controllers"
	"fithub/internal/models/db_models"
	"fithub/internal/repositories"
	"fithub/internal/services"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const subscriptionSecret = "whsec_router_test"

type testApp struct {
	db     *gorm.DB
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)

	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "http://shop.test"
	cfg.Session.Secret = "router-test-session-secret"
	cfg.Stripe.SubscriptionWebhookSecret = subscriptionSecret
	cfg.Stripe.Currency = "eur"
	cfg.Payments.IdempotentWebhooks = true

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	tokens := utils.NewTokenManager("router-test-jwt", time.Hour)
	txManager := repositories.NewTransactionManager(db)
	accountRepo := repositories.NewAccountRepository(db)
	productRepo := repositories.NewProductRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	progressRepo := repositories.NewProgressRepository(db)

	gateway := services.NewStripeGateway(cfg.Stripe)
	media := services.NewMediaService(bucket)
	accountService := services.NewAccountService(accountRepo, txManager, tokens, bcrypt.MinCost)
	catalogService := services.NewCatalogService(productRepo, reviewRepo)
	orderService := services.NewOrderService(
		repositories.NewOrderRepository(db), accountRepo, txManager, gateway,
		services.NewMailService(services.LogMailSender{}), cfg,
	)

	engine := NewRouter(Params{
		Config:   cfg,
		Tokens:   tokens,
		DB:       db,
		Accounts: controllers.NewAccountController(accountService),
		Catalog:  controllers.NewCatalogController(catalogService),
		Reviews:  controllers.NewReviewController(services.NewReviewService(reviewRepo, productRepo)),
		Cart:     controllers.NewCartController(services.NewCartService(productRepo)),
		Payments: controllers.NewPaymentController(
			services.NewCheckoutService(productRepo, gateway, cfg), orderService, accountService, catalogService,
		),
		Orders: controllers.NewOrderController(orderService),
		Subscriptions: controllers.NewSubscriptionController(
			services.NewPlanService(planRepo, subRepo, gateway, cfg),
			services.NewSubscriptionWebhookService(txManager, gateway),
			accountService,
		),
		Profile: controllers.NewProfileController(
			services.NewProfileService(accountRepo, repositories.NewProfileRepository(db), subRepo, progressRepo, media),
		),
		Community: controllers.NewCommunityController(
			services.NewCommunityService(progressRepo, repositories.NewNewsletterRepository(db), media),
		),
		Dashboard: controllers.NewDashboardController(
			services.NewDashboardService(repositories.NewDashboardRepository(db)),
		),
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return &testApp{db: db, server: server}
}

// newClient keeps cookies and never follows redirects.
func (a *testApp) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) *http.Response {
	t.Helper()
	res, err := client.Get(a.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (a *testApp) postForm(t *testing.T, client *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	res, err := client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (a *testApp) signUp(t *testing.T, client *http.Client, username string) {
	t.Helper()
	res := a.postForm(t, client, "/accounts/signup", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password1": {"correct-horse-battery"},
		"password2": {"correct-horse-battery"},
	})
	require.Equal(t, http.StatusFound, res.StatusCode)
	require.Equal(t, "/profile/edit", res.Header.Get("Location"))
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	res := app.get(t, app.newClient(t), "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLoginRequiredRedirectsAnonymous(t *testing.T) {
	app := newTestApp(t)
	res := app.get(t, app.newClient(t), "/profile/edit")

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/accounts/login?next=%2Fprofile%2Fedit", res.Header.Get("Location"))
}

func TestNewsletterSubscribe(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)

	for i := 0; i < 2; i++ {
		res := app.postForm(t, client, "/community/newsletter/subscribe", url.Values{"email": {"Fan@Example.com"}})
		assert.Equal(t, http.StatusFound, res.StatusCode)
	}

	var count int64
	require.NoError(t, app.db.Model(&db_models.NewsletterSubscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateProgressValidation(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)
	app.signUp(t, client, "lifter")

	res := app.postForm(t, client, "/community/progress/new", url.Values{"content": {"Deadlift PR"}})
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decode(t, res)
	assert.Equal(t, "invalid", body["status"])
	errs := body["data"].(map[string]any)["errors"].(map[string]any)
	assert.Contains(t, errs, "title")

	res = app.postForm(t, client, "/community/progress/new", url.Values{"title": {"Week 1"}, "content": {"Deadlift PR"}})
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/community/", res.Header.Get("Location"))
}

func TestDeleteOthersProgressIsNotFound(t *testing.T) {
	app := newTestApp(t)
	author := testutil.CreateAccount(t, app.db, "author")
	update := &db_models.ProgressUpdate{AccountID: author.ID, Title: "Mine", Content: "Hands off"}
	require.NoError(t, app.db.Omit("Account").Create(update).Error)

	client := app.newClient(t)
	app.signUp(t, client, "intruder")
	res := app.postForm(t, client, "/community/progress/"+update.ID.String()+"/delete", nil)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	var count int64
	require.NoError(t, app.db.Model(&db_models.ProgressUpdate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartAddThenUpdateToZero(t *testing.T) {
	app := newTestApp(t)
	product := testutil.CreateProduct(t, app.db, "Whey", "29.90", 10)
	client := app.newClient(t)
	app.signUp(t, client, "shopper")

	res := app.postForm(t, client, "/cart/add/"+product.ID.String(), url.Values{"quantity": {"3"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 3, decode(t, res)["data"].(map[string]any)["cart_size"])

	res = app.postForm(t, client, "/cart/update/"+product.ID.String(), url.Values{"quantity": {"0"}})
	require.Equal(t, http.StatusFound, res.StatusCode)

	res = app.get(t, client, "/cart")
	require.Equal(t, http.StatusOK, res.StatusCode)
	items, _ := decode(t, res)["data"].(map[string]any)["items"].([]any)
	assert.Empty(t, items)
}

func TestCartAddNeverReportsUnsavedLines(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)
	app.signUp(t, client, "bulkbuyer")

	accepted := 0
	refused := false
	for i := 0; i < 30 && !refused; i++ {
		product := testutil.CreateProduct(t, app.db, "Item "+strconv.Itoa(i), "1.00", 10)
		res := app.postForm(t, client, "/cart/add/"+product.ID.String(), nil)

		switch res.StatusCode {
		case http.StatusOK:
			accepted++
			assert.EqualValues(t, accepted, decode(t, res)["data"].(map[string]any)["cart_size"])
		case http.StatusBadRequest:
			refused = true
		default:
			t.Fatalf("add #%d answered %d", i+1, res.StatusCode)
		}
	}
	require.True(t, refused, "the cart must refuse products once it is full")

	res := app.get(t, client, "/cart")
	require.Equal(t, http.StatusOK, res.StatusCode)
	items, _ := decode(t, res)["data"].(map[string]any)["items"].([]any)
	assert.Len(t, items, accepted)
}

func TestAdminDashboardHiddenFromCustomers(t *testing.T) {
	app := newTestApp(t)
	client := app.newClient(t)
	app.signUp(t, client, "customer")

	res := app.get(t, client, "/admin-dashboard")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSubscriptionWebhookSignature(t *testing.T) {
	app := newTestApp(t)
	payload := []byte(`{"id":"evt_1","object":"event","type":"customer.created","api_version":"2025-03-31.basil","data":{"object":{"id":"cus_1"}}}`)

	post := func(header string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, app.server.URL+"/subscriptions/webhook", strings.NewReader(string(payload)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set("Stripe-Signature", header)
		}
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = res.Body.Close() })
		return res
	}

	assert.Equal(t, http.StatusBadRequest, post("").StatusCode)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    subscriptionSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	assert.Equal(t, http.StatusOK, post(signed.Header).StatusCode)
}
