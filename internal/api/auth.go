package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/service"
)

const currentUserKey = "current_user"

// SessionAuth rejects requests without a valid session cookie
func SessionAuth(auth service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			WriteError(c, ErrUnauthorized)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			WriteError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user set by SessionAuth
func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// login opens a session and sets its cookie
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, session, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, session.ID, int(h.session.TTL.Seconds()), "/", "", h.session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// logout closes the session and clears its cookie
func (h *Handler) logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.session.CookieName)
	if err := h.services.Auth.Logout(c.Request.Context(), sessionID); err != nil {
		WriteError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// me returns the logged-in user
func (h *Handler) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		WriteError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
