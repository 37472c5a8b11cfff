package model

// Period периодичность занятия
type Period string

const (
	PeriodOnce     Period = "once"
	PeriodWeekly   Period = "weekly"
	PeriodBiweekly Period = "biweekly"
	PeriodMonthly  Period = "monthly"
)

// Periods возвращает все варианты периодичности в порядке отображения
func Periods() []Period {
	return []Period{PeriodOnce, PeriodWeekly, PeriodBiweekly, PeriodMonthly}
}

// IsValid проверяет что значение входит в перечисление
func (p Period) IsValid() bool {
	for _, v := range Periods() {
		if v == p {
			return true
		}
	}
	return false
}
