package callbackdata

import (
	"fmt"
	"net/url"
	"strings"
)

// Формат токена: <tag>:<field>=<value>&<field>=<value>
const (
	tagSep   = ":"
	pairSep  = "&"
	valueSep = "="
)

// Encode кодирует действие в callback data
func (r *Registry) Encode(a Action) (string, error) {
	if a == nil {
		return "", ErrUnregistered
	}
	e, ok := r.byKind[a.Kind()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnregistered, a.Kind())
	}

	values := a.values()
	if len(values) != len(e.fields) {
		return "", fmt.Errorf("encode %s: expected %d fields, got %d", e.kind, len(e.fields), len(values))
	}
	for i, f := range e.fields {
		if _, err := f.parse(values[i]); err != nil {
			return "", fmt.Errorf("encode %s: %w: %s: %v", e.kind, ErrInvalidField, f.Name, err)
		}
	}

	token := e.format(values)
	if len(token) > MaxTokenLen {
		return "", fmt.Errorf("encode %s: %w (%d bytes)", e.kind, ErrTokenTooLong, len(token))
	}
	return token, nil
}

// Decode разбирает callback data в действие
func (r *Registry) Decode(token string) (Action, error) {
	if len(token) > MaxTokenLen {
		return nil, malformed(token, ErrTokenTooLong)
	}
	tag, _, ok := splitTag(token)
	if !ok {
		return nil, malformed(token, nil)
	}
	e, ok := r.byTag[tag]
	if !ok {
		return nil, malformed(token, fmt.Errorf("unknown tag %q", tag))
	}
	return e.decode(token)
}

// Encode кодирует действие каталогом по умолчанию
func Encode(a Action) (string, error) {
	return Default.Encode(a)
}

// Decode разбирает токен каталогом по умолчанию
func Decode(token string) (Action, error) {
	return Default.Decode(token)
}

func (e *entry) format(values []string) string {
	var sb strings.Builder
	sb.WriteString(e.tag)
	sb.WriteString(tagSep)
	for i, f := range e.fields {
		if i > 0 {
			sb.WriteString(pairSep)
		}
		sb.WriteString(f.Name)
		sb.WriteString(valueSep)
		sb.WriteString(url.QueryEscape(values[i]))
	}
	return sb.String()
}

// decode разбирает токен строго по схеме этого действия
func (e *entry) decode(token string) (Action, error) {
	tag, body, ok := splitTag(token)
	if !ok || tag != e.tag {
		return nil, malformed(token, fmt.Errorf("tag mismatch, want %q", e.tag))
	}

	pairs := strings.Split(body, pairSep)
	if len(pairs) != len(e.fields) {
		return nil, malformed(token, fmt.Errorf("expected %d fields, got %d", len(e.fields), len(pairs)))
	}

	values := make(fieldValues, len(e.fields))
	for i, f := range e.fields {
		name, raw, ok := strings.Cut(pairs[i], valueSep)
		if !ok || name != f.Name {
			return nil, malformed(token, fmt.Errorf("expected field %q at position %d", f.Name, i))
		}
		unescaped, err := url.QueryUnescape(raw)
		if err != nil {
			return nil, malformed(token, err)
		}
		v, err := f.parse(unescaped)
		if err != nil {
			return nil, invalidField(token, f.Name, err)
		}
		values[i] = v
	}

	return e.build(values), nil
}

func splitTag(token string) (tag, body string, ok bool) {
	tag, body, ok = strings.Cut(token, tagSep)
	if !ok || tag == "" {
		return "", "", false
	}
	return tag, body, true
}
