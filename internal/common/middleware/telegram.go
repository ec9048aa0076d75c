package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"vpn-storefront/internal/common/errors"
	"vpn-storefront/internal/identity"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"
	PageURLHeader  = "X-Telegram-Page-URL"

	initDataKey = "init_data"
	profileKey  = "profile"
)

// ginHost exposes the request as an identity.Host.
type ginHost struct {
	c *gin.Context
}

func (h ginHost) InitDataUnsafe() *initdata.InitData {
	if v, ok := h.c.Get(initDataKey); ok {
		if data, ok := v.(*initdata.InitData); ok {
			return data
		}
	}
	return nil
}

func (h ginHost) InitDataRaw() string {
	raw := h.c.GetHeader(InitDataHeader)
	if raw == "" {
		raw = h.c.Query("init_data")
	}
	return raw
}

func (h ginHost) PageURL() string {
	if u := h.c.GetHeader(PageURLHeader); u != "" {
		return u
	}
	return h.c.GetHeader("Referer")
}

// Host returns the identity.Host view of the request.
func Host(c *gin.Context) identity.Host {
	return ginHost{c: c}
}

// verifiedHost exposes only init data whose signature has been checked.
type verifiedHost struct {
	data *initdata.InitData
}

func (h verifiedHost) InitDataUnsafe() *initdata.InitData { return h.data }
func (h verifiedHost) InitDataRaw() string                { return "" }
func (h verifiedHost) PageURL() string                    { return "" }

// TelegramInitData resolves the caller's Telegram profile. With a bot token
// the request must carry signed init data, taken from the header or else from
// the page URL, and only that data is trusted. Without a token every source
// is parsed unchecked.
func TelegramInitData(token string, expIn time.Duration, reader *identity.Reader, logger zerolog.Logger) gin.HandlerFunc {
	if token == "" {
		logger.Warn().Msg("BOT_TOKEN is not set, init data signatures are not verified")
	}

	return func(c *gin.Context) {
		host := ginHost{c: c}
		if token == "" {
			c.Set(profileKey, reader.Read(host))
			c.Next()
			return
		}

		raw := host.InitDataRaw()
		if raw == "" {
			raw = identity.PageInitData(host.PageURL())
		}
		if raw == "" {
			c.Error(errors.New(errors.ErrCodeUnauthorized, "Init data is required"))
			c.Abort()
			return
		}

		if err := initdata.Validate(raw, token, expIn); err != nil {
			logger.Debug().Err(err).Msg("init data validation failed")
			c.Error(errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid init data"))
			c.Abort()
			return
		}
		parsed, err := initdata.Parse(raw)
		if err != nil {
			c.Error(errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid init data"))
			c.Abort()
			return
		}

		c.Set(initDataKey, &parsed)
		c.Set(profileKey, reader.Read(verifiedHost{data: &parsed}))
		c.Next()
	}
}
