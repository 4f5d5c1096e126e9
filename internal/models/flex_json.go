package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// fieldMaps caches JSON tag -> struct field index mappings per type
var fieldMaps sync.Map

func jsonFieldMap(t reflect.Type) map[string]int {
	if cached, ok := fieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		m[name] = i
	}
	fieldMaps.Store(t, m)
	return m
}

// flexDecode fills the struct pointed to by dst field by field. Values that
// fail to decode natively are coerced from strings where possible and
// otherwise left at their zero value.
func flexDecode(data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(dst).Elem()
	fieldMap := jsonFieldMap(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// JSON string into a numeric or bool field: coerce
		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			if s == "" {
				continue
			}
			coerceStringToField(fv, s)
			continue
		}

		// Bare number the native decode refused, e.g. 2.0 into an int
		var n json.Number
		if err := json.Unmarshal(rawVal, &n); err == nil {
			coerceStringToField(fv, n.String())
		}
	}

	return nil
}

// UnmarshalJSON accepts quoted numbers and tolerates garbage in numeric
// fields, which read as zero. Unknown results normalize to the empty result.
func (g *Game) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias Game
	a := (*Alias)(g)

	if err := json.Unmarshal(data, a); err != nil {
		*a = Alias{}
		if err := flexDecode(data, a); err != nil {
			return err
		}
	}

	g.Result = normalizeResult(g.Result)
	return nil
}

// UnmarshalJSON treats a missing or non-array games field as an empty run.
func (r *WeeklyRun) UnmarshalJSON(data []byte) error {
	type Alias WeeklyRun
	var shadow struct {
		*Alias
		Games json.RawMessage `json:"games"`
	}
	shadow.Alias = (*Alias)(r)

	if err := json.Unmarshal(data, &shadow); err != nil {
		*shadow.Alias = Alias{}
		if err := flexDecode(data, shadow.Alias); err != nil {
			return err
		}
		var games struct {
			Games json.RawMessage `json:"games"`
		}
		_ = json.Unmarshal(data, &games)
		shadow.Games = games.Games
	}

	r.Games = decodeGames(shadow.Games)
	return nil
}

func decodeGames(raw json.RawMessage) []Game {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []Game{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Game{}
	}

	games := make([]Game, 0, len(items))
	for _, item := range items {
		var g Game
		if err := json.Unmarshal(item, &g); err != nil {
			continue
		}
		games = append(games, g)
	}
	return games
}

func normalizeResult(r Result) Result {
	switch Result(strings.ToLower(strings.TrimSpace(string(r)))) {
	case ResultWin, "w":
		return ResultWin
	case ResultLoss, "l":
		return ResultLoss
	}
	return ""
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "2.0" → truncate to int
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseFloat(s, 64); err == nil && n >= 0 {
			fv.SetUint(uint64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}
