package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/auth"
	"github.com/SugaryLLC/sugary-web/internal/auth/provider"
	"github.com/SugaryLLC/sugary-web/internal/metrics"
	"github.com/SugaryLLC/sugary-web/internal/session"
)

// Handler exposes the relay auth actions over HTTP. It is the only
// place where a Result becomes cookies: session cookies are issued
// strictly after an action reported success.
type Handler struct {
	service   *auth.Service
	providers *provider.Registry
	secure    bool
}

func NewHandler(service *auth.Service, registry *provider.Registry, secure bool) *Handler {
	return &Handler{
		service:   service,
		providers: registry,
		secure:    secure,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/auth/guest", h.guest)
	api.POST("/auth/login", h.login)
	api.POST("/auth/signup", h.signup)
	api.POST("/auth/social", h.social)
	api.GET("/auth/logout", h.logout)
	api.GET("/auth/forgot-pass", h.forgotPassword)
	api.GET("/current-user", h.currentUser)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

func (h *Handler) guest(c *gin.Context) {
	res := h.service.CreateGuest(c.Request.Context())
	h.respond(c, "guest", res)
}

func (h *Handler) login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.reject(c, "login", "Invalid request body")
		return
	}
	if creds.UserName == "" || creds.Password == "" {
		h.reject(c, "login", "UserName and Password are required")
		return
	}

	res := h.service.Login(c.Request.Context(), creds)
	h.respond(c, "login", res)
}

func (h *Handler) signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, "signup", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.reject(c, "signup", "Email and Password are required")
		return
	}

	res := h.service.Signup(c.Request.Context(), req)
	h.respond(c, "signup", res)
}

func (h *Handler) social(c *gin.Context) {
	var payload auth.SocialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.reject(c, "social", "Invalid request body")
		return
	}
	if payload.Provider == "" || payload.Token == "" {
		h.reject(c, "social", "Provider and Token are required")
		return
	}

	res := h.service.SocialLogin(c.Request.Context(), payload)
	h.respond(c, "social", res)
}

// logout never fails from the caller's perspective. The backend leg is
// best-effort; both cookies are cleared unconditionally.
func (h *Handler) logout(c *gin.Context) {
	token, _ := session.AccessTokenFrom(c.Request)
	h.service.Logout(c.Request.Context(), token)

	session.Clear(c.Writer, h.secure)
	metrics.RecordAuthAction("logout", "success")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *Handler) currentUser(c *gin.Context) {
	token, _ := session.AccessTokenFrom(c.Request)
	res := h.service.CurrentUser(c.Request.Context(), token)
	h.respond(c, "current_user", res)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		h.reject(c, "forgot_pass", "Email is required")
		return
	}

	res := h.service.ForgotPassword(c.Request.Context(), email)
	h.respond(c, "forgot_pass", res)
}

func (h *Handler) respond(c *gin.Context, action string, res auth.Result) {
	outcome := "success"
	if !res.Success {
		outcome = string(res.Kind)
	}
	metrics.RecordAuthAction(action, outcome)

	if res.Success && res.Pair != nil {
		session.Issue(c.Writer, *res.Pair, h.secure)
	}
	c.JSON(httpStatus(res), res)
}

func (h *Handler) reject(c *gin.Context, action, message string) {
	metrics.RecordAuthAction(action, "bad_request")
	c.JSON(http.StatusBadRequest, auth.Result{Message: message})
}

// httpStatus maps a Result onto a response status. The backend status
// wins when it already describes an error; transport-level failures
// surface as 502 so they are distinguishable from backend verdicts.
func httpStatus(res auth.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Status >= 400:
		return res.Status
	case res.Kind == auth.KindNoSession:
		return http.StatusUnauthorized
	case res.Kind == auth.KindConfigMissing:
		return http.StatusInternalServerError
	case res.Kind == auth.KindUpstreamLogical:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
