package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/careerpilot/config"
	"github.com/yoockh/careerpilot/internal/utils"
)

type apiError struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Code    utils.Code `json:"code"`
}

func abort(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, apiError{Success: false, Error: msg, Code: code})
}

// Claims follow the hosted auth provider's token layout: the user id is the
// subject and the app role lives in app_metadata.role.
type Claims struct {
	jwt.RegisteredClaims
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// JWTAuth verifies HS256 bearer tokens and sets user_id, role and
// user_name on the context.
func JWTAuth(cfg config.AuthConfig) gin.HandlerFunc {
	secret := cfg.JWTSecret
	issuer := cfg.JWTIssuer
	audience := cfg.JWTAudience

	return func(c *gin.Context) {
		if secret == "" {
			abort(c, http.StatusInternalServerError, utils.CodeInternal, "jwt secret is not configured")
			return
		}

		raw, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}
		if raw == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		claims := &Claims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if issuer != "" && claims.Issuer != issuer {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token issuer")
			return
		}

		if audience != "" && !slices.Contains(claims.Audience, audience) {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token audience")
			return
		}

		userID := claims.Subject
		if userID == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing subject")
			return
		}

		appRole := "user"
		if claims.AppMetadata != nil {
			if v, ok := claims.AppMetadata["role"]; ok {
				if s, ok := v.(string); ok && s != "" {
					appRole = s
				}
			}
		}

		c.Set("user_id", userID)
		c.Set("role", appRole)
		if name := firstName(claims.UserMetadata); name != "" {
			c.Set("user_name", name)
		}
		c.Next()
	}
}

// bearerToken reads the Authorization header. Browser websockets cannot set
// headers, so upgrade requests may pass access_token as a query parameter.
func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")), true
	}
	if c.IsWebsocket() {
		if t := c.Query("access_token"); t != "" {
			return t, true
		}
	}
	return "", false
}

func firstName(meta map[string]any) string {
	for _, k := range []string{"first_name", "full_name", "name"} {
		if s, ok := meta[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.Fields(s)[0]
		}
	}
	return ""
}
