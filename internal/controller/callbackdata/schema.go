package callbackdata

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

// FieldType примитивный тип поля payload
type FieldType int

const (
	FieldDate FieldType = iota
	FieldInt
	FieldEnum
	FieldUUID
)

func (t FieldType) String() string {
	switch t {
	case FieldDate:
		return "date"
	case FieldInt:
		return "int"
	case FieldEnum:
		return "enum"
	case FieldUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// Field описание одного поля payload
type Field struct {
	Name   string
	Type   FieldType
	Min    int      // для FieldInt
	Max    int      // для FieldInt
	Values []string // для FieldEnum
}

func dateField(name string) Field {
	return Field{Name: name, Type: FieldDate}
}

func intField(name string, min, max int) Field {
	return Field{Name: name, Type: FieldInt, Min: min, Max: max}
}

func enumField[T ~string](name string, values []T) Field {
	f := Field{Name: name, Type: FieldEnum}
	for _, v := range values {
		f.Values = append(f.Values, string(v))
	}
	return f
}

func uuidField(name string) Field {
	return Field{Name: name, Type: FieldUUID}
}

// parse разбирает значение поля. Принимается только каноническая запись,
// чтобы одно значение не имело нескольких токенов.
func (f Field) parse(raw string) (any, error) {
	switch f.Type {
	case FieldDate:
		d, err := model.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		return d, nil
	case FieldInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		if strconv.Itoa(n) != raw {
			return nil, fmt.Errorf("non-canonical integer %q", raw)
		}
		if n < f.Min || n > f.Max {
			return nil, fmt.Errorf("%d out of range [%d, %d]", n, f.Min, f.Max)
		}
		return n, nil
	case FieldEnum:
		if !slices.Contains(f.Values, raw) {
			return nil, fmt.Errorf("unknown value %q", raw)
		}
		return raw, nil
	case FieldUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		if id.String() != raw {
			return nil, fmt.Errorf("non-canonical uuid %q", raw)
		}
		return id, nil
	default:
		return nil, errors.New("unsupported field type")
	}
}

// longest возвращает самое длинное допустимое значение поля
func (f Field) longest() string {
	switch f.Type {
	case FieldDate:
		return model.FormatDate(time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC))
	case FieldInt:
		lo, hi := strconv.Itoa(f.Min), strconv.Itoa(f.Max)
		if len(lo) > len(hi) {
			return lo
		}
		return hi
	case FieldEnum:
		var out string
		for _, v := range f.Values {
			if len(v) > len(out) {
				out = v
			}
		}
		return out
	case FieldUUID:
		return uuid.Max.String()
	default:
		return ""
	}
}

// fieldValues разобранные значения полей в порядке схемы
type fieldValues []any

func (v fieldValues) asDate(i int) time.Time { return v[i].(time.Time) }
func (v fieldValues) asInt(i int) int        { return v[i].(int) }
func (v fieldValues) asString(i int) string  { return v[i].(string) }
func (v fieldValues) asUUID(i int) uuid.UUID { return v[i].(uuid.UUID) }
