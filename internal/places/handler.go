package places

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/logger"
)

// Handler exposes the places proxy. Google logical failures come back
// with HTTP 200 so the client reads the status field; only gateway
// faults (missing key, transport) are HTTP errors.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	grp := r.Group("/api/places")
	grp.GET("/autocomplete", h.autocomplete)
	grp.GET("/details", h.details)
}

func (h *Handler) autocomplete(c *gin.Context) {
	body, err := h.client.Autocomplete(c.Request.Context(), AutocompleteQuery{
		Input:        c.Query("input"),
		SessionToken: c.Query("sessiontoken"),
		Region:       c.Query("region"),
		Language:     c.Query("language"),
	})
	h.write(c, body, err)
}

func (h *Handler) details(c *gin.Context) {
	body, err := h.client.Details(c.Request.Context(), DetailsQuery{
		PlaceID:      c.Query("place_id"),
		SessionToken: c.Query("sessiontoken"),
		Language:     c.Query("language"),
	})
	h.write(c, body, err)
}

func (h *Handler) write(c *gin.Context, body []byte, err error) {
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			// Log the absence, never the key itself.
			logger.FromContext(c.Request.Context()).Errorw("places api key missing")
			c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "error_message": "Server key missing"})
			return
		}
		logger.FromContext(c.Request.Context()).Errorw("places proxy failed", "err", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "error_message": "Server error"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json", body)
}
