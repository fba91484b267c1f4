package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/platform/logging"
)

// HeaderAcceptLanguage is the request header used to pick the locale.
const HeaderAcceptLanguage = "Accept-Language"

// ContextKeyLocale is the gin.Context key holding the resolved language.Tag.
const ContextKeyLocale = "locale"

// LocaleResolver picks a supported locale for an Accept-Language value.
type LocaleResolver interface {
	Resolve(header string) language.Tag
}

// Locale returns middleware that resolves the caller's locale once per
// request and stores it in the request context, where the lifecycle and
// the error translator read it.
func Locale(resolver LocaleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := resolver.Resolve(c.GetHeader(HeaderAcceptLanguage))

		c.Set(ContextKeyLocale, tag)

		ctx := i18n.WithLocale(c.Request.Context(), tag)
		if logging.HasLogger(ctx) {
			ctx = logging.WithContext(ctx, logging.FromContext(ctx).With(slog.String("locale", tag.String())))
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
