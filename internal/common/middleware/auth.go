package middleware

import (
	"github.com/gin-gonic/gin"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/identity"
)

// RequireIdentity aborts requests for which no Telegram identity could be
// resolved.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			c.Error(errors.NewIdentityMissingError())
			c.Abort()
			return
		}
		c.Next()
	}
}

// ProfileFrom returns the profile stored by TelegramInitData.
func ProfileFrom(c *gin.Context) identity.Profile {
	if v, ok := c.Get(profileKey); ok {
		if p, ok := v.(identity.Profile); ok {
			return p
		}
	}
	return identity.Profile{}
}

func IdentityFrom(c *gin.Context) (int64, bool) {
	return ProfileFrom(c).Identity()
}
