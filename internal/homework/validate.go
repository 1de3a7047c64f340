package homework

import (
	"encoding/json"
	"fmt"
	"math"

	logx "homeworkbot/pkg/logx"
)

const (
	KeyHomeworks   = "homeworks"
	KeyCurrentDate = "current_date"
)

// Validate checks the shape of a decoded API response and returns its
// homeworks sequence unchanged. An empty sequence is a valid result.
//
// response is whatever the fetch step produced: a JSON value decoded into
// any, or nil when the fetch failed. Every rejection is logged before it is
// returned.
func Validate(log logx.Logger, response any) ([]any, error) {
	payload, ok := response.(map[string]any)
	if !ok {
		return nil, reject(log, newError(KindTypeMismatch, "api response is not a mapping (got %s)", typeName(response)))
	}
	if len(payload) == 0 {
		return nil, reject(log, newError(KindEmptyPayload, "api response is an empty mapping"))
	}
	raw, ok := payload[KeyHomeworks]
	if !ok {
		return nil, reject(log, newError(KindMissingKey, "api response has no %q key", KeyHomeworks))
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, reject(log, newError(KindTypeMismatch, "%q is not a list (got %s)", KeyHomeworks, typeName(raw)))
	}
	return homeworks, nil
}

func reject(log logx.Logger, err *Error) error {
	log.Error("api response rejected", logx.String("kind", err.Kind.String()), logx.Err(err))
	return err
}

// CurrentDate extracts an integer current_date from a response mapping.
func CurrentDate(response any) (int64, bool) {
	payload, ok := response.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := payload[KeyCurrentDate].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
