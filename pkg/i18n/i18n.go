// Package i18n resolves user-facing API messages for the caller's language.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Message identifiers.
const (
	MsgEmailExists     = "user.email_exists"
	MsgUserNotFound    = "user.not_found"
	MsgInternal        = "internal"
	MsgRateLimited     = "request.rate_limited"
	MsgNotFoundGeneric = "route.not_found"
)

var catalog = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		MsgEmailExists:     "Email já existe",
		MsgUserNotFound:    "Usuário não encontrado",
		MsgInternal:        "Internal server error",
		MsgRateLimited:     "Muitas requisições, tente novamente mais tarde",
		MsgNotFoundGeneric: "Rota não encontrada",
	},
	language.English: {
		MsgEmailExists:     "Email already exists",
		MsgUserNotFound:    "User not found",
		MsgInternal:        "Internal server error",
		MsgRateLimited:     "Too many requests, try again later",
		MsgNotFoundGeneric: "Route not found",
	},
}

// languages lists every catalog language in a stable order.
var languages = []language.Tag{language.BrazilianPortuguese, language.English}

// Translator negotiates a supported language and looks up messages.
type Translator struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

// New creates a Translator whose fallback is defaultLocale. Unknown or
// unsupported locales fall back to Brazilian Portuguese.
func New(defaultLocale string) *Translator {
	fallback := language.BrazilianPortuguese
	if tag, err := language.Parse(defaultLocale); err == nil {
		if _, ok := catalog[tag]; ok {
			fallback = tag
		}
	}

	// The matcher treats the first tag as its default.
	supported := []language.Tag{fallback}
	for _, tag := range languages {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	return &Translator{
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Match picks the supported language for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.fallback
	}
	return t.supported[index]
}

// Default returns the fallback language.
func (t *Translator) Default() language.Tag {
	return t.fallback
}

// Message returns the text of id in lang, falling back to the default
// language and finally to the id itself.
func (t *Translator) Message(lang language.Tag, id string) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[id]; ok {
			return msg
		}
	}
	if msg, ok := catalog[t.fallback][id]; ok {
		return msg
	}
	return id
}

type langKey struct{}

// WithLanguage stores the negotiated language in ctx.
func WithLanguage(ctx context.Context, lang language.Tag) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LanguageFrom returns the language stored in ctx, if any.
func LanguageFrom(ctx context.Context) (language.Tag, bool) {
	lang, ok := ctx.Value(langKey{}).(language.Tag)
	return lang, ok
}
