package insightidr

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds response fields a model does not declare, and declared fields
// whose value did not fit the Go type (an empty timestamp, for example).
// MarshalJSON writes them back out, so a decoded model re-encodes without
// losing data.
type Extra map[string]json.RawMessage

var modelFields sync.Map // reflect.Type -> map[string]int

// jsonFields maps the JSON names of a struct's exported fields to their index.
func jsonFields(t reflect.Type) map[string]int {
	if cached, ok := modelFields.Load(t); ok {
		return cached.(map[string]int)
	}
	fields := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		fields[name] = i
	}
	modelFields.Store(t, fields)
	return fields
}

// decodeModel fills the struct dst points to field by field. A field that
// fails to decode is left zero and kept in the returned Extra along with
// every unknown key. Only a payload that is not a JSON object is an error.
func decodeModel(data []byte, dst any) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(dst).Elem()
	fields := jsonFields(rv.Type())

	var extra Extra
	for key, value := range raw {
		if idx, ok := fields[key]; ok {
			field := rv.Field(idx)
			if err := json.Unmarshal(value, field.Addr().Interface()); err == nil {
				continue
			}
			field.SetZero()
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[key] = value
	}
	return extra, nil
}

// encodeModel marshals v and merges in the extra keys v did not emit.
func encodeModel(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

func (a *Assignee) UnmarshalJSON(data []byte) (err error) {
	a.Extra, err = decodeModel(data, a)
	return err
}

func (a Assignee) MarshalJSON() ([]byte, error) {
	type plain Assignee
	return encodeModel(plain(a), a.Extra)
}

func (i *Investigation) UnmarshalJSON(data []byte) (err error) {
	i.Extra, err = decodeModel(data, i)
	return err
}

func (i Investigation) MarshalJSON() ([]byte, error) {
	type plain Investigation
	return encodeModel(plain(i), i.Extra)
}

func (c *Comment) UnmarshalJSON(data []byte) (err error) {
	c.Extra, err = decodeModel(data, c)
	return err
}

func (c Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return encodeModel(plain(c), c.Extra)
}

func (a *Alert) UnmarshalJSON(data []byte) (err error) {
	a.Extra, err = decodeModel(data, a)
	return err
}

func (a Alert) MarshalJSON() ([]byte, error) {
	type plain Alert
	return encodeModel(plain(a), a.Extra)
}

func (a *Asset) UnmarshalJSON(data []byte) (err error) {
	a.Extra, err = decodeModel(data, a)
	return err
}

func (a Asset) MarshalJSON() ([]byte, error) {
	type plain Asset
	return encodeModel(plain(a), a.Extra)
}

func (a *Account) UnmarshalJSON(data []byte) (err error) {
	a.Extra, err = decodeModel(data, a)
	return err
}

func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	return encodeModel(plain(a), a.Extra)
}

func (ti *ThreatIndicator) UnmarshalJSON(data []byte) (err error) {
	ti.Extra, err = decodeModel(data, ti)
	return err
}

func (ti ThreatIndicator) MarshalJSON() ([]byte, error) {
	type plain ThreatIndicator
	return encodeModel(plain(ti), ti.Extra)
}

func (t *Threat) UnmarshalJSON(data []byte) (err error) {
	t.Extra, err = decodeModel(data, t)
	return err
}

func (t Threat) MarshalJSON() ([]byte, error) {
	type plain Threat
	return encodeModel(plain(t), t.Extra)
}

func (q *SavedQuery) UnmarshalJSON(data []byte) (err error) {
	q.Extra, err = decodeModel(data, q)
	return err
}

func (q SavedQuery) MarshalJSON() ([]byte, error) {
	type plain SavedQuery
	return encodeModel(plain(q), q.Extra)
}

func (s *LogSet) UnmarshalJSON(data []byte) (err error) {
	s.Extra, err = decodeModel(data, s)
	return err
}

func (s LogSet) MarshalJSON() ([]byte, error) {
	type plain LogSet
	return encodeModel(plain(s), s.Extra)
}

func (e *LogEvent) UnmarshalJSON(data []byte) (err error) {
	e.Extra, err = decodeModel(data, e)
	return err
}

func (e LogEvent) MarshalJSON() ([]byte, error) {
	type plain LogEvent
	return encodeModel(plain(e), e.Extra)
}

func (r *LogQueryResult) UnmarshalJSON(data []byte) (err error) {
	r.Extra, err = decodeModel(data, r)
	return err
}

func (r LogQueryResult) MarshalJSON() ([]byte, error) {
	type plain LogQueryResult
	return encodeModel(plain(r), r.Extra)
}

func (r *LogStatsResult) UnmarshalJSON(data []byte) (err error) {
	r.Extra, err = decodeModel(data, r)
	return err
}

func (r LogStatsResult) MarshalJSON() ([]byte, error) {
	type plain LogStatsResult
	return encodeModel(plain(r), r.Extra)
}
