package model

// LessonAction действие над существующим занятием
type LessonAction string

const (
	LessonActionCancel     LessonAction = "cancel"
	LessonActionReschedule LessonAction = "reschedule"
)

// LessonActions возвращает доступные действия в порядке отображения
func LessonActions() []LessonAction {
	return []LessonAction{LessonActionCancel, LessonActionReschedule}
}

func (a LessonAction) IsValid() bool {
	for _, v := range LessonActions() {
		if v == a {
			return true
		}
	}
	return false
}
