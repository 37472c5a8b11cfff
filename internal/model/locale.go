package model

// Locale язык интерфейса бота
type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

// DefaultLocale используется когда язык пользователя не поддерживается
const DefaultLocale = LocaleRU

// Locales возвращает поддерживаемые языки в порядке отображения
func Locales() []Locale {
	return []Locale{LocaleRU, LocaleEN}
}

func (l Locale) IsValid() bool {
	for _, v := range Locales() {
		if v == l {
			return true
		}
	}
	return false
}
