package services

import (
	"errors"
	"testing"

	"fithub/internal/models/db_models"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mailFixtures() (*db_models.Account, *db_models.Order) {
	account := &db_models.Account{Username: "jdoe", FirstName: "Jane", Email: "jane@example.com"}
	account.ID = uuid.New()
	order := &db_models.Order{AccountID: account.ID, TotalCents: 1999}
	order.ID = uuid.New()
	return account, order
}

func TestOrderConfirmationBody(t *testing.T) {
	account, order := mailFixtures()
	body := OrderConfirmationBody(account, order)

	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, "#"+order.ID.String())
	assert.Contains(t, body, "Order total: €19.99")

	account.FirstName = ""
	assert.Contains(t, OrderConfirmationBody(account, order), "Hi jdoe,")
}

func TestMailService_SendOrderConfirmation(t *testing.T) {
	t.Run("delivers to the account email", func(t *testing.T) {
		sender := &mockMailSender{}
		account, order := mailFixtures()
		sender.On("Send", "jane@example.com", OrderConfirmationSubject, mock.AnythingOfType("string")).Return(nil).Once()

		require.NoError(t, NewMailService(sender).SendOrderConfirmation(account, order))
		sender.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		sender := &mockMailSender{}
		account, order := mailFixtures()
		account.Email = " "

		err := NewMailService(sender).SendOrderConfirmation(account, order)
		assert.ErrorIs(t, err, utils.ErrMailDelivery)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sender failure", func(t *testing.T) {
		sender := &mockMailSender{}
		account, order := mailFixtures()
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		err := NewMailService(sender).SendOrderConfirmation(account, order)
		assert.ErrorIs(t, err, utils.ErrMailDelivery)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestNewMailSender(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, LogMailSender{}, NewMailSender(cfg.Mail))

	cfg.Mail.Host = "smtp.example.com"
	assert.IsType(t, &SMTPMailSender{}, NewMailSender(cfg.Mail))
}
