package callbackdata

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleActions() []Action {
	id := uuid.MustParse("0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f")
	return []Action{
		SelectDate{Date: date(2024, time.March, 10)},
		NextDates{Date: date(2024, time.March, 17)},
		PreviousDates{Date: date(2024, time.March, 3)},
		SelectTime{Hour: 0},
		SelectTime{Hour: 14},
		SelectTime{Hour: 23},
		SelectPeriod{Period: model.PeriodWeekly},
		SelectLocale{Locale: model.LocaleEN},
		OpenLesson{ID: id},
		ApplyAction{Action: model.LessonActionCancel, ID: id},
		ApplyAction{Action: model.LessonActionReschedule, ID: uuid.Max},
		LessonsPage{Page: 0},
		LessonsPage{Page: 999},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := NewRegistry()

	for _, a := range sampleActions() {
		t.Run(string(a.Kind()), func(t *testing.T) {
			token, err := r.Encode(a)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(token), MaxTokenLen)

			got, err := r.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, a, got)
			assert.Equal(t, a.Kind(), r.Classify(token))
		})
	}
}

func TestEncodeWireFormat(t *testing.T) {
	r := NewRegistry()
	id := uuid.MustParse("0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f")

	tests := []struct {
		action Action
		want   string
	}{
		{SelectDate{Date: date(2024, time.March, 10)}, "cd:d=2024-03-10"},
		{NextDates{Date: date(2024, time.March, 10)}, "nd:d=2024-03-10"},
		{PreviousDates{Date: date(2024, time.March, 10)}, "pd:d=2024-03-10"},
		{SelectTime{Hour: 9}, "t:h=9"},
		{SelectPeriod{Period: model.PeriodBiweekly}, "p:p=biweekly"},
		{SelectLocale{Locale: model.LocaleRU}, "l:l=ru"},
		{OpenLesson{ID: id}, "e:id=0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f"},
		{ApplyAction{Action: model.LessonActionCancel, ID: id}, "ea:a=cancel&id=0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f"},
		{LessonsPage{Page: 3}, "ep:n=3"},
	}

	for _, tt := range tests {
		got, err := r.Encode(tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestEncodeRejectsValuesOutsideSchema(t *testing.T) {
	r := NewRegistry()

	tests := []Action{
		SelectTime{Hour: 24},
		SelectTime{Hour: -1},
		SelectPeriod{Period: "daily"},
		SelectLocale{Locale: "de"},
		ApplyAction{Action: "archive", ID: uuid.New()},
		LessonsPage{Page: 1000},
	}

	for _, a := range tests {
		_, err := r.Encode(a)
		assert.ErrorIs(t, err, ErrInvalidField, "%#v", a)
	}

	_, err := r.Encode(nil)
	assert.ErrorIs(t, err, ErrUnregistered)
}

func TestDecodeErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		token  string
		reason error
	}{
		{"empty", "", ErrMalformedToken},
		{"no tag separator", "2024-03-10", ErrMalformedToken},
		{"unknown tag", "zz:d=2024-03-10", ErrMalformedToken},
		{"legacy plain time", "14:00", ErrMalformedToken},
		{"missing field", "t:", ErrMalformedToken},
		{"wrong field name", "t:x=14", ErrMalformedToken},
		{"extra field", "t:h=14&h=15", ErrMalformedToken},
		{"fields out of order", "ea:id=0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f&a=cancel", ErrMalformedToken},
		{"bad escaping", "p:p=%zz", ErrMalformedToken},
		{"too long", "e:id=" + strings.Repeat("a", MaxTokenLen), ErrMalformedToken},
		{"non numeric hour", "t:h=two", ErrInvalidField},
		{"hour out of range", "t:h=24", ErrInvalidField},
		{"non canonical hour", "t:h=09", ErrInvalidField},
		{"bad date", "cd:d=2024-02-30", ErrInvalidField},
		{"short date", "cd:d=2024-3-10", ErrInvalidField},
		{"unknown period", "p:p=daily", ErrInvalidField},
		{"unknown locale", "l:l=de", ErrInvalidField},
		{"bad uuid", "e:id=42", ErrInvalidField},
		{"unknown action", "ea:a=archive&id=0f8e2b4c-6d1a-4e3b-9c5d-7a8b9c0d1e2f", ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.reason)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.token, decodeErr.Token)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	r := NewRegistry()

	for _, token := range []string{"", "noop", "2024-03-10", "14:00", "weekly", "x:y=z", ":d=2024-03-10"} {
		assert.Equal(t, KindUnknown, r.Classify(token), token)
	}
}

func TestLongestPayloadFitsLimit(t *testing.T) {
	r := NewRegistry()

	for _, kind := range r.Kinds() {
		e := r.byKind[kind]
		values := make(fieldValues, len(e.fields))
		for i, f := range e.fields {
			v, err := f.parse(f.longest())
			require.NoError(t, err, "%s.%s", kind, f.Name)
			values[i] = v
		}

		token, err := r.Encode(e.build(values))
		require.NoError(t, err, kind)
		assert.LessOrEqual(t, len(token), MaxTokenLen, kind)
	}
}

func TestTokensAreDisjoint(t *testing.T) {
	r := NewRegistry()

	for _, a := range sampleActions() {
		token, err := r.Encode(a)
		require.NoError(t, err)

		for _, kind := range r.Kinds() {
			if kind == a.Kind() {
				continue
			}
			_, err := r.byKind[kind].decode(token)
			assert.ErrorIs(t, err, ErrMalformedToken, "%s token accepted by %s", a.Kind(), kind)
		}
	}
}

func TestRegistryCatalog(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []Kind{
		KindCreateDate,
		KindNextDates,
		KindPreviousDates,
		KindTime,
		KindPeriod,
		KindLocale,
		KindLessonID,
		KindLessonAction,
		KindLessonsPage,
	}, r.Kinds())

	fields, ok := r.Schema(KindLessonAction)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, FieldEnum, fields[0].Type)
	assert.Equal(t, FieldUUID, fields[1].Type)

	_, ok = r.Schema(KindUnknown)
	assert.False(t, ok)
}

func TestRegisterDuplicateTagPanics(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() {
		r.register(entry{
			kind:   "duplicate",
			tag:    "cd",
			fields: []Field{dateField("d")},
			build:  func(v fieldValues) Action { return SelectDate{Date: v.asDate(0)} },
		})
	})
}
