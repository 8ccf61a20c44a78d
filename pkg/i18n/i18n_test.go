package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTranslator_Match(t *testing.T) {
	tr := New("pt-BR")

	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.BrazilianPortuguese},
		{"en-US,en;q=0.9", language.English},
		{"pt", language.BrazilianPortuguese},
		{"fr-FR", language.BrazilianPortuguese},
		{"fr;q=0.9, en;q=0.8", language.English},
		{";;;garbage", language.BrazilianPortuguese},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.header))
		})
	}
}

func TestTranslator_DefaultLocale(t *testing.T) {
	assert.Equal(t, language.English, New("en").Default())
	assert.Equal(t, language.BrazilianPortuguese, New("xx-invalid").Default())
	assert.Equal(t, language.BrazilianPortuguese, New("de").Default())
	assert.Equal(t, language.English, New("en").Match("de"))
}

func TestTranslator_Message(t *testing.T) {
	tr := New("pt-BR")

	assert.Equal(t, "Email já existe", tr.Message(language.BrazilianPortuguese, MsgEmailExists))
	assert.Equal(t, "Usuário não encontrado", tr.Message(language.BrazilianPortuguese, MsgUserNotFound))
	assert.Equal(t, "User not found", tr.Message(language.English, MsgUserNotFound))
	assert.Equal(t, "Email já existe", tr.Message(language.German, MsgEmailExists))
	assert.Equal(t, "unknown.id", tr.Message(language.English, "unknown.id"))
}

func TestTranslator_InternalMessageIsUntranslated(t *testing.T) {
	tr := New("pt-BR")

	for _, lang := range []language.Tag{language.BrazilianPortuguese, language.English} {
		assert.Equal(t, "Internal server error", tr.Message(lang, MsgInternal))
	}
}

func TestLanguageContext(t *testing.T) {
	_, ok := LanguageFrom(context.Background())
	assert.False(t, ok)

	lang, ok := LanguageFrom(WithLanguage(context.Background(), language.English))
	assert.True(t, ok)
	assert.Equal(t, language.English, lang)
}
