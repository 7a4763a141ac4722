package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextPatientID holds the authenticated patient identifier, when present.
const ContextPatientID = "patient_id"

// AuthMiddleware verifies tokens minted by the external identity provider.
// The token's subject is the stable patient identifier; nothing else about
// authentication is this service's concern.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

func (m *AuthMiddleware) patientID(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", nil
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return "", fmt.Errorf("malformed authorization header")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// PatientOptional extracts the patient id when a valid token is present and
// lets anonymous requests through untouched.
func (m *AuthMiddleware) PatientOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			c.Next()
			return
		}
		if id, err := m.patientID(c); err == nil && id != "" {
			c.Set(ContextPatientID, id)
		}
		c.Next()
	}
}

// PatientRequired rejects requests without a valid patient token.
func (m *AuthMiddleware) PatientRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "authentication is not enabled",
			})
			return
		}

		id, err := m.patientID(c)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "unauthorized",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		c.Set(ContextPatientID, id)
		c.Next()
	}
}
