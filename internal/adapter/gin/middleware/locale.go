package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"users-api/pkg/i18n"
)

// ErrorResponse is the JSON body of every error answered by the HTTP API.
// Error holds the localized message; Code is stable across languages.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Locale negotiates the response language from Accept-Language and stores it
// in the request context.
func Locale(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := tr.Match(c.GetHeader("Accept-Language"))
		c.Request = c.Request.WithContext(i18n.WithLanguage(c.Request.Context(), lang))
		c.Next()
	}
}

// Language returns the negotiated language of the request. Requests that did
// not pass through Locale are negotiated on the spot.
func Language(c *gin.Context, tr *i18n.Translator) language.Tag {
	if lang, ok := i18n.LanguageFrom(c.Request.Context()); ok {
		return lang
	}
	return tr.Match(c.GetHeader("Accept-Language"))
}

// AbortWithError writes a localized error body and stops the chain.
func AbortWithError(c *gin.Context, tr *i18n.Translator, status int, code, msgID string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: tr.Message(Language(c, tr), msgID),
		Code:  code,
	})
}
