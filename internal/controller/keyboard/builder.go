// Package keyboard строит inline-клавиатуры шагов диалога.
// Клавиатура здесь - просто строки пар (текст, callback data), без привязки к Telegram API.
package keyboard

// Button кнопка с текстом и callback data
type Button struct {
	Label string
	Token string
}

// Row ряд кнопок
type Row []Button

// Keyboard упорядоченный набор рядов
type Keyboard []Row

// Tokens callback data кнопок ряда
func (r Row) Tokens() []string {
	tokens := make([]string, 0, len(r))
	for _, b := range r {
		tokens = append(tokens, b.Token)
	}
	return tokens
}

// Tokens возвращает callback data всех кнопок по порядку
func (k Keyboard) Tokens() []string {
	var tokens []string
	for _, row := range k {
		tokens = append(tokens, row.Tokens()...)
	}
	return tokens
}

// Builder упрощает создание клавиатур
type Builder struct {
	rows []Row
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([]Row, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...Button) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// AddRows добавляет несколько рядов кнопок
func (b *Builder) AddRows(rows []Row) *Builder {
	for _, row := range rows {
		b.Row(row...)
	}
	return b
}

// Build возвращает готовую клавиатуру
func (b *Builder) Build() Keyboard {
	return Keyboard(b.rows)
}
