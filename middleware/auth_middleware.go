package middleware

import (
	"net/http"
	"strings"

	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GuestHeader carries the anonymous shopper id.
const GuestHeader = "X-Guest-ID"

// Protect requires a valid bearer access token.
func Protect(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		claims, err := issuer.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// IdentifyUser accepts a bearer token when valid and the guest header
// otherwise. It never rejects; handlers decide what identity they need.
func IdentifyUser(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			if claims, err := issuer.ValidateAccessToken(strings.TrimPrefix(header, "Bearer ")); err == nil {
				setClaims(c, claims)
			}
		}
		if guest := strings.TrimSpace(c.GetHeader(GuestHeader)); guest != "" {
			c.Set("guestID", guest)
		}
		c.Next()
	}
}

// RequireVendor must run after Protect.
func RequireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(models.RoleVendor) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Only vendors can access this route"})
			return
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}

func GuestID(c *gin.Context) string {
	return c.GetString("guestID")
}
