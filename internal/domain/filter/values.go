package filter

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crudcenter/internal/core/apperror"
)

// Values holds one request's filter input: field -> operator -> value.
// A nil value means "not supplied".
type Values map[string]map[Operator]any

// Set records a value and returns v for chaining.
func (v Values) Set(field string, op Operator, value any) Values {
	ops, ok := v[field]
	if !ok {
		ops = make(map[Operator]any)
		v[field] = ops
	}
	ops[op] = value
	return v
}

// datetimeLayouts are tried in order when a datetime arrives as text.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// literalTimeLayout is how datetimes are written into literal SQL, always in UTC.
const literalTimeLayout = "2006-01-02 15:04:05"

func coerce(f Field, op Operator, raw any) (any, error) {
	if op == In {
		items, ok := toSlice(raw)
		if !ok || len(items) == 0 {
			return nil, apperror.NewInvalidFilterValue(f.Name, string(op), raw)
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, ok := coerceScalar(f, item)
			if !ok {
				return nil, apperror.NewInvalidFilterValue(f.Name, string(op), item)
			}
			out = append(out, v)
		}
		return out, nil
	}

	v, ok := coerceScalar(f, raw)
	if !ok {
		return nil, apperror.NewInvalidFilterValue(f.Name, string(op), raw)
	}
	return v, nil
}

func coerceScalar(f Field, raw any) (any, bool) {
	switch f.Type {
	case String:
		s, ok := raw.(string)
		return s, ok
	case Integer:
		return toInt64(raw)
	case Decimal:
		return toDecimal(raw)
	case Boolean:
		return toBool(raw)
	case DateTime:
		return toTime(raw)
	case Enum:
		s, ok := raw.(string)
		if !ok || !f.isMember(s) {
			return nil, false
		}
		return s, true
	case UUID:
		return toUUID(raw)
	}
	return nil, false
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		// JSON numbers decode as float64
		if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	}
	if n, ok := toInt64(raw); ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Decimal{}, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	if n, ok := toInt64(raw); ok && (n == 0 || n == 1) {
		return n == 1, true
	}
	return false, false
}

func toTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func toUUID(raw any) (uuid.UUID, bool) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, true
	case string:
		id, err := uuid.Parse(strings.TrimSpace(v))
		return id, err == nil
	}
	return uuid.Nil, false
}

// toSlice accepts any slice or array, or a comma-separated string.
func toSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case string:
		parts := strings.Split(v, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// uuid.UUID is a [16]byte array, not a list of values
	if _, isUUID := raw.(uuid.UUID); isUUID {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// literalText is the unquoted text form of a coerced value.
func literalText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.UTC().Format(literalTimeLayout)
	case uuid.UUID:
		return x.String()
	case bool:
		if x {
			return "1"
		}
		return "0"
	}
	return ""
}
