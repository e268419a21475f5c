package scan

import (
	"fmt"
	"strconv"
)

// FieldKind tags the shape a record field value was found in.
type FieldKind int

const (
	FieldEmpty FieldKind = iota
	FieldScalar
	FieldObject
	FieldList
)

func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "scalar"
	case FieldObject:
		return "object"
	case FieldList:
		return "list"
	default:
		return "empty"
	}
}

// FieldValue is the comparable/displayable string behind a heterogeneous
// record value, tagged with the shape it was resolved from.
type FieldValue struct {
	Kind  FieldKind
	Value string
}

func (v FieldValue) IsEmpty() bool {
	return v.Value == ""
}

// objectKeys is the resolution priority for linked-record and attachment
// style objects.
var objectKeys = []string{"text", "name", "id", "url"}

// ResolveFieldValue resolves scalars, objects ({text|name|id|url}) and
// arrays of either (first element only).
func ResolveFieldValue(v any) FieldValue {
	switch t := v.(type) {
	case nil:
		return FieldValue{Kind: FieldEmpty}
	case string:
		return scalar(t)
	case bool:
		return scalar(strconv.FormatBool(t))
	case float64:
		return scalar(strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		return scalar(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case int:
		return scalar(strconv.Itoa(t))
	case int64:
		return scalar(strconv.FormatInt(t, 10))
	case map[string]any:
		for _, key := range objectKeys {
			if s := ResolveFieldValue(t[key]); !s.IsEmpty() && s.Kind == FieldScalar {
				return FieldValue{Kind: FieldObject, Value: s.Value}
			}
		}
		return FieldValue{Kind: FieldEmpty}
	case map[string]string:
		for _, key := range objectKeys {
			if s := t[key]; s != "" {
				return FieldValue{Kind: FieldObject, Value: s}
			}
		}
		return FieldValue{Kind: FieldEmpty}
	case []any:
		if len(t) == 0 {
			return FieldValue{Kind: FieldEmpty}
		}
		first := ResolveFieldValue(t[0])
		if first.IsEmpty() {
			return FieldValue{Kind: FieldEmpty}
		}
		return FieldValue{Kind: FieldList, Value: first.Value}
	case []string:
		if len(t) == 0 || t[0] == "" {
			return FieldValue{Kind: FieldEmpty}
		}
		return FieldValue{Kind: FieldList, Value: t[0]}
	default:
		return scalar(fmt.Sprint(t))
	}
}

func scalar(s string) FieldValue {
	if s == "" {
		return FieldValue{Kind: FieldEmpty}
	}
	return FieldValue{Kind: FieldScalar, Value: s}
}
