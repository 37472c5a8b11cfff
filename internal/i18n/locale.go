package i18n

import (
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{language.Russian, language.English}
	matcher       = language.NewMatcher(supportedTags)
)

// ResolveLocale подбирает поддерживаемый язык по language_code из Telegram.
// Неизвестные и пустые коды дают язык по умолчанию.
func ResolveLocale(languageCode string) model.Locale {
	if locale, ok := MatchLocale(languageCode); ok {
		return locale
	}
	return model.DefaultLocale
}

// MatchLocale как ResolveLocale, но сообщает, что подходящего языка нет
func MatchLocale(languageCode string) (model.Locale, bool) {
	if languageCode == "" {
		return "", false
	}
	_, idx, confidence := matcher.Match(language.Make(languageCode))
	if confidence == language.No {
		return "", false
	}
	return localeForTag(supportedTags[idx]), true
}

// Tag возвращает языковой тег для локали
func Tag(locale model.Locale) language.Tag {
	switch locale {
	case model.LocaleEN:
		return language.English
	default:
		return language.Russian
	}
}

func localeForTag(tag language.Tag) model.Locale {
	if tag == language.English {
		return model.LocaleEN
	}
	return model.LocaleRU
}
