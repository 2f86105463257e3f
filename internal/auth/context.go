package auth

import "github.com/gin-gonic/gin"

// GetSubject returns the authenticated token subject or empty string.
func GetSubject(c *gin.Context) string {
	if v, ok := c.Get("subject"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
