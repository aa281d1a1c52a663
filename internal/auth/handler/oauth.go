package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/auth"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/metrics"
	"github.com/SugaryLLC/sugary-web/internal/session"
)

// oauthLogin starts the server-side code flow for clients that cannot
// run the provider's JS SDK.
func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	ctx := c.Request.Context()
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	// Providers report user-denied consent and similar conditions via
	// error query params; send those visitors back to login.
	if errParam := c.Query("error"); errParam != "" {
		logger.FromContext(ctx).Warnw("oauth callback returned error",
			"provider", providerName,
			"error", errParam,
			"desc", c.Query("error_description"),
		)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.FromContext(ctx).Errorw("oauth callback missing code and error")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing pkce verifier"})
		return
	}

	identity, err := p.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		logger.FromContext(ctx).Warnw("oauth code exchange failed",
			"provider", providerName,
			"err", err.Error(),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	payload := auth.SocialPayload{
		Provider:  identity.Provider,
		Token:     identity.Token,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	}

	// Carry the visitor's guest account into the sign-in so the
	// backend can merge guest-owned data.
	if token, ok := session.AccessTokenFrom(c.Request); ok {
		if cur := h.service.CurrentUser(ctx, token); cur.Success && cur.User != nil && cur.User.IsGuest {
			payload.GuestUserId = cur.User.Id
		}
	}

	res := h.service.SocialLogin(ctx, payload)
	if !res.Success {
		metrics.RecordAuthAction("oauth_callback", string(res.Kind))
		c.JSON(httpStatus(res), res)
		return
	}
	metrics.RecordAuthAction("oauth_callback", "success")

	if res.Pair != nil {
		session.Issue(c.Writer, *res.Pair, h.secure)
	}
	c.Redirect(http.StatusFound, "/")
}
