// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the calling professional. An upstream auth layer is
// expected to set the "professionalID" Gin context key; the X-Professional-ID
// header is accepted as a fallback for trusted internal callers and tests.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ProfessionalIDKey is the Gin context key set by upstream auth.
	ProfessionalIDKey = "professionalID"
	// HeaderProfessionalID carries the professional id when no auth layer
	// sits in front of the service.
	HeaderProfessionalID = "X-Professional-ID"
)

// ProfessionalID returns the calling professional's id, or "" when the
// request carries no identity.
func ProfessionalID(c *gin.Context) string {
	if v, ok := c.Get(ProfessionalIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		return strings.TrimSpace(c.GetHeader(HeaderProfessionalID))
	}
	return ""
}
