package callbackdata

import (
	"fmt"

	"github.com/Freeeeeet/lesson_bot/internal/model"
)

// MaxTokenLen ограничение Telegram на размер callback_data в байтах
const MaxTokenLen = 64

// MaxPage последний номер страницы, который можно передать в кнопке
const MaxPage = 999

// entry описание одного типа действия: дискриминатор, схема полей и конструктор
type entry struct {
	kind   Kind
	tag    string
	fields []Field
	build  func(v fieldValues) Action
}

// Registry каталог всех типов действий. Используется и при создании кнопок,
// и при разборе входящих callback query.
type Registry struct {
	byKind map[Kind]*entry
	byTag  map[string]*entry
	order  []Kind
}

// Default общий каталог действий бота
var Default = NewRegistry()

// NewRegistry создаёт каталог с фиксированным набором действий
func NewRegistry() *Registry {
	r := &Registry{
		byKind: make(map[Kind]*entry),
		byTag:  make(map[string]*entry),
	}

	r.register(entry{
		kind:   KindCreateDate,
		tag:    "cd",
		fields: []Field{dateField("d")},
		build:  func(v fieldValues) Action { return SelectDate{Date: v.asDate(0)} },
	})
	r.register(entry{
		kind:   KindNextDates,
		tag:    "nd",
		fields: []Field{dateField("d")},
		build:  func(v fieldValues) Action { return NextDates{Date: v.asDate(0)} },
	})
	r.register(entry{
		kind:   KindPreviousDates,
		tag:    "pd",
		fields: []Field{dateField("d")},
		build:  func(v fieldValues) Action { return PreviousDates{Date: v.asDate(0)} },
	})
	r.register(entry{
		kind:   KindTime,
		tag:    "t",
		fields: []Field{intField("h", 0, 23)},
		build:  func(v fieldValues) Action { return SelectTime{Hour: v.asInt(0)} },
	})
	r.register(entry{
		kind:   KindPeriod,
		tag:    "p",
		fields: []Field{enumField("p", model.Periods())},
		build:  func(v fieldValues) Action { return SelectPeriod{Period: model.Period(v.asString(0))} },
	})
	r.register(entry{
		kind:   KindLocale,
		tag:    "l",
		fields: []Field{enumField("l", model.Locales())},
		build:  func(v fieldValues) Action { return SelectLocale{Locale: model.Locale(v.asString(0))} },
	})
	r.register(entry{
		kind:   KindLessonID,
		tag:    "e",
		fields: []Field{uuidField("id")},
		build:  func(v fieldValues) Action { return OpenLesson{ID: v.asUUID(0)} },
	})
	r.register(entry{
		kind:   KindLessonAction,
		tag:    "ea",
		fields: []Field{enumField("a", model.LessonActions()), uuidField("id")},
		build: func(v fieldValues) Action {
			return ApplyAction{Action: model.LessonAction(v.asString(0)), ID: v.asUUID(1)}
		},
	})
	r.register(entry{
		kind:   KindLessonsPage,
		tag:    "ep",
		fields: []Field{intField("n", 0, MaxPage)},
		build:  func(v fieldValues) Action { return LessonsPage{Page: v.asInt(0)} },
	})

	return r
}

// register добавляет действие в каталог.
// Паникует при конфликте дискриминаторов или если самый длинный токен не влезает в лимит.
func (r *Registry) register(e entry) {
	if _, ok := r.byKind[e.kind]; ok {
		panic(fmt.Sprintf("callbackdata: kind %q registered twice", e.kind))
	}
	if _, ok := r.byTag[e.tag]; ok {
		panic(fmt.Sprintf("callbackdata: tag %q registered twice", e.tag))
	}

	longest := make([]string, len(e.fields))
	for i, f := range e.fields {
		longest[i] = f.longest()
	}
	if n := len(e.format(longest)); n > MaxTokenLen {
		panic(fmt.Sprintf("callbackdata: kind %q may produce %d byte tokens", e.kind, n))
	}

	r.byKind[e.kind] = &e
	r.byTag[e.tag] = &e
	r.order = append(r.order, e.kind)
}

// Kinds возвращает зарегистрированные типы в порядке регистрации
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// Schema возвращает схему полей для типа действия
func (r *Registry) Schema(kind Kind) ([]Field, bool) {
	e, ok := r.byKind[kind]
	if !ok {
		return nil, false
	}
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out, true
}

// Classify определяет тип действия по токену без разбора полей
func (r *Registry) Classify(token string) Kind {
	tag, _, ok := splitTag(token)
	if !ok {
		return KindUnknown
	}
	if e, ok := r.byTag[tag]; ok {
		return e.kind
	}
	return KindUnknown
}
