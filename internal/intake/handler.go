package intake

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls how the session credential is carried.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Handler exposes the intake flow over HTTP. Keep it thin: fold wire-level
// field variants, call the service, map errors to status codes.
//
// SuccessStatus is 201 or 204; older frontend builds were shipped against a
// 204 No Content contract, so the variance is configuration, not a second
// endpoint.
type Handler struct {
	Service       *Service
	Cookie        CookieConfig
	SuccessStatus int
}

// activityRequest accepts both historical field spellings. The body may be
// form- or JSON-encoded.
type activityRequest struct {
	Date     string `json:"date" form:"date"`
	DateTime string `json:"date_time" form:"date_time"`
	Path     string `json:"path" form:"path"`
	Referer  string `json:"referer" form:"referer"`
	Referrer string `json:"referrer" form:"referrer"`
}

func (r activityRequest) payload() Payload {
	date := r.Date
	if date == "" {
		date = r.DateTime
	}
	referrer := r.Referrer
	if referrer == "" {
		referrer = r.Referer
	}
	return Payload{Date: date, Path: r.Path, Referrer: referrer}
}

// Create handles POST. An empty or unparseable body falls through to field
// validation so the response still names the first missing field.
func (h Handler) Create(c *gin.Context) {
	if h.Service == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "intake not configured"})
		return
	}

	var req activityRequest
	_ = c.ShouldBind(&req)

	credential, _ := c.Cookie(h.Cookie.Name)

	res, err := h.Service.Record(c.Request.Context(), Request{
		SessionCredential: credential,
		IPAddress:         c.ClientIP(),
		UserAgent:         c.GetHeader("User-Agent"),
		RefererHeader:     c.GetHeader("Referer"),
		Payload:           req.payload(),
	})

	// The cookie is (re)issued even when validation rejects the payload;
	// the session exists either way and its expiry slides on contact.
	if res.SessionID != "" {
		c.SetCookie(h.Cookie.Name, res.SessionID, int(h.Cookie.TTL.Seconds()), "/", "", h.Cookie.Secure, true)
	}

	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Reason, "field": vErr.Field})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "activity save failed"})
		return
	}

	c.Status(h.SuccessStatus)
}
