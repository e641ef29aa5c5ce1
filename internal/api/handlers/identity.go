package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/incadev/coreadmin/internal/api/middleware"
)

// currentUserID reads the authenticated caller's id from the request context.
// The second return is false when no auth middleware ran, so handlers can
// answer 401 instead of assuming their mount order.
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
