package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartSessionKey = "cart"

	maxUploadBytes  = 5 << 20
	maxWebhookBytes = 1 << 16

	invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// pathID parses a uuid route parameter; a malformed id is a 404 like any
// other unknown object.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Not found")
		return uuid.Nil, false
	}
	return id, true
}

// viewerID is the caller's account id or uuid.Nil for anonymous requests.
func viewerID(c *gin.Context) uuid.UUID {
	id, _ := utils.CurrentUserID(c)
	return id
}

// mustUserID reads the account id a LoginRequired group guarantees.
func mustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthenticated)
	}
	return id, ok
}

// bindForm binds a urlencoded, multipart or JSON body and validates it.
func bindForm(c *gin.Context, form any) utils.FieldErrors {
	if err := c.ShouldBind(form); err != nil {
		return utils.FieldErrors{utils.NonFieldErrors: {"Invalid form submission."}}
	}
	return utils.ValidateForm(form)
}

// readUpload returns nil when the field was not posted.
func readUpload(c *gin.Context, field string) (*services.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if header.Size > maxUploadBytes {
		return nil, utils.ErrInvalidInput
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        bytes.NewReader(body),
	}, nil
}

func loadCart(c *gin.Context) services.Cart {
	cart, err := services.DecodeCart(utils.SessionValue(c, cartSessionKey))
	if err != nil {
		return services.Cart{}
	}
	return cart
}

func saveCart(c *gin.Context, cart services.Cart) error {
	value := ""
	if !cart.IsEmpty() {
		value = cart.Encode()
	}
	return utils.SetSessionValue(c, cartSessionKey, value)
}

// quantityParam parses an optional quantity form value.
func quantityParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// safeRedirectTarget keeps redirects on this site.
func safeRedirectTarget(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return fallback
}

func readWebhookBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
}
