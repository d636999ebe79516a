package api

import "encoding/json"

// gormTimestampKeys maps the CamelCase timestamp keys GORM emits for embedded
// gorm.Model fields to the snake_case keys the rest of the API uses.
var gormTimestampKeys = map[string]string{
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
	"DeletedAt": "deleted_at",
}

func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		for camel, snake := range gormTimestampKeys {
			if val, ok := vv[camel]; ok {
				vv[snake] = val
				delete(vv, camel)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps round-trips v through JSON and rewrites GORM's
// CamelCase timestamp keys to snake_case so responses stay consistent.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}
