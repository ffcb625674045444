package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Query is an ordered set of scalar query parameters.
// Entries keep their insertion order when encoded; nil values are never recorded.
type Query struct {
	params []param
}

type param struct {
	key   string
	value string
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{}
}

// Set records key=value. A nil value, nil pointer or empty slice is skipped.
// Setting an existing key replaces its value in place.
func (q *Query) Set(key string, value any) *Query {
	s, ok := formatValue(value)
	if !ok {
		return q
	}
	for i := range q.params {
		if q.params[i].key == key {
			q.params[i].value = s
			return q
		}
	}
	q.params = append(q.params, param{key: key, value: s})
	return q
}

// Len returns the number of recorded entries.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.params)
}

// Get returns the encoded value for key.
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	for _, p := range q.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Encode renders the query string without the leading '?'.
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func formatValue(value any) (string, bool) {
	// Typed nil pointers count as unset. Other pointers are formatted by
	// their target unless the pointer itself is a Stringer.
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		if _, ok := value.(fmt.Stringer); !ok {
			return formatValue(rv.Elem().Interface())
		}
	}

	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []string:
		// Multi-valued filters are comma separated on the wire.
		if len(v) == 0 {
			return "", false
		}
		return strings.Join(v, ","), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
