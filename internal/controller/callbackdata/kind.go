package callbackdata

// Kind тип действия, закодированного в callback data
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindCreateDate    Kind = "create-date"
	KindNextDates     Kind = "next-dates"
	KindPreviousDates Kind = "previous-dates"
	KindTime          Kind = "time"
	KindPeriod        Kind = "period"
	KindLocale        Kind = "locale"
	KindLessonID      Kind = "entity-id"
	KindLessonAction  Kind = "entity-action"
	KindLessonsPage   Kind = "entity-page"
)

func (k Kind) String() string {
	return string(k)
}
