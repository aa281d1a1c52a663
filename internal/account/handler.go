package account

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/backend"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/session"
)

// Handler relays account operations to the backend with the caller's
// bearer token. Responses pass through mostly untouched; the gateway
// adds nothing beyond auth plumbing and defensive body handling.
type Handler struct {
	backend *backend.Client
}

func NewHandler(client *backend.Client) *Handler {
	return &Handler{backend: client}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	grp := r.Group("/api/account")
	grp.POST("/update-profile", h.updateProfile)
	grp.GET("/email-otp", h.sendEmailOTP)
	grp.GET("/email-verify", h.verifyEmail)
	grp.GET("/phone-otp", h.sendPhoneOTP)
	grp.DELETE("/delete", h.deleteAccount)
}

func (h *Handler) updateProfile(c *gin.Context) {
	token, ok := session.AccessTokenFrom(c.Request)
	if !ok {
		unauthorized(c)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Success": false, "Message": "Unreadable request body"})
		return
	}

	resp, err := h.backend.Do(c.Request.Context(), http.MethodPost, "/Account/UpdateProfile",
		json.RawMessage(payload), backend.WithBearer(token))
	if err != nil {
		h.relayError(c, err, "Failed to update profile")
		return
	}
	defer resp.Body.Close()

	// The backend answers profile updates with 204; normalize that to
	// an envelope so clients have one shape to read.
	if resp.StatusCode == http.StatusNoContent {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"Success": true})
		return
	}

	h.relay(c, resp)
}

func (h *Handler) sendEmailOTP(c *gin.Context) {
	token, ok := session.AccessTokenFrom(c.Request)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.backend.Do(c.Request.Context(), http.MethodGet, "/Account/Mail/SendOtp", nil,
		backend.WithBearer(token))
	if err != nil {
		h.relayError(c, err, "Failed to send OTP")
		return
	}
	defer resp.Body.Close()

	h.relay(c, resp)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	otp := c.Query("otp")
	if otp == "" {
		c.JSON(http.StatusBadRequest, gin.H{"Success": false, "Message": "OTP is required"})
		return
	}

	opts := []backend.RequestOption{backend.WithQuery(url.Values{"otp": {otp}})}
	if token, ok := session.AccessTokenFrom(c.Request); ok {
		opts = append(opts, backend.WithBearer(token))
	}

	resp, err := h.backend.Do(c.Request.Context(), http.MethodGet, "/Account/Mail/Verify", nil, opts...)
	if err != nil {
		h.relayError(c, err, "Failed to verify email")
		return
	}
	defer resp.Body.Close()

	h.relay(c, resp)
}

func (h *Handler) sendPhoneOTP(c *gin.Context) {
	var opts []backend.RequestOption
	if token, ok := session.AccessTokenFrom(c.Request); ok {
		opts = append(opts, backend.WithBearer(token))
	}

	resp, err := h.backend.Do(c.Request.Context(), http.MethodGet, "/Account/Phone/SendOtp", nil, opts...)
	if err != nil {
		h.relayError(c, err, "Failed to send phone OTP")
		return
	}
	defer resp.Body.Close()

	h.relay(c, resp)
}

func (h *Handler) deleteAccount(c *gin.Context) {
	category := c.Query("category")
	reason := c.Query("reason")
	if category == "" || reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"Success": false, "Message": "Category and reason are required"})
		return
	}

	token, ok := session.AccessTokenFrom(c.Request)
	if !ok {
		unauthorized(c)
		return
	}

	resp, err := h.backend.Do(c.Request.Context(), http.MethodDelete, "/Account/Delete", nil,
		backend.WithBearer(token),
		backend.WithQuery(url.Values{"category": {category}, "reason": {reason}}))
	if err != nil {
		h.relayError(c, err, "Failed to delete account")
		return
	}
	defer resp.Body.Close()

	h.relay(c, resp)
}

// relay copies the backend verdict through. Non-JSON bodies are
// wrapped so clients always receive JSON.
func (h *Handler) relay(c *gin.Context, resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"Success": false, "Message": "Unreadable backend response"})
		return
	}

	c.Header("Cache-Control", "no-store")
	if json.Valid(body) && len(body) > 0 {
		c.Data(resp.StatusCode, "application/json", body)
		return
	}
	c.JSON(resp.StatusCode, gin.H{"Success": false, "Message": string(body)})
}

func (h *Handler) relayError(c *gin.Context, err error, message string) {
	logger.FromContext(c.Request.Context()).Errorw("account relay failed", "err", err.Error())
	status := http.StatusBadGateway
	if errors.Is(err, backend.ErrNotConfigured) {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"Success": false, "Message": message})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"Success": false, "Message": "Unauthorized: no token"})
}
