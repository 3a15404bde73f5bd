package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/springbone"
)

// Helpers for reading component data that came either straight from Serialize
// or through a JSON round trip (numbers as float64, arrays as []any).

func readFloat(data map[string]any, key string, dst *float32) {
	switch v := data[key].(type) {
	case float64:
		*dst = float32(v)
	case float32:
		*dst = v
	case int:
		*dst = float32(v)
	}
}

func readInt(data map[string]any, key string, dst *int) {
	switch v := data[key].(type) {
	case float64:
		*dst = int(v)
	case int:
		*dst = v
	}
}

func readBool(data map[string]any, key string, dst *bool) {
	if b, ok := data[key].(bool); ok {
		*dst = b
	}
}

func readString(data map[string]any, key string, dst *string) {
	if s, ok := data[key].(string); ok {
		*dst = s
	}
}

func readStrings(data map[string]any, key string, dst *[]string) {
	switch v := data[key].(type) {
	case []string:
		*dst = append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*dst = out
	}
}

func readVec3(data map[string]any, key string, dst *rl.Vector3) {
	switch v := data[key].(type) {
	case [3]float32:
		*dst = rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
	case []any:
		if len(v) != 3 {
			return
		}
		var out [3]float32
		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return
			}
			out[i] = float32(f)
		}
		*dst = rl.Vector3{X: out[0], Y: out[1], Z: out[2]}
	}
}

func vec3Data(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func angleLimitData(a springbone.AngleLimit) map[string]any {
	return map[string]any{
		"active": a.Active,
		"min":    a.Min,
		"max":    a.Max,
	}
}

func readAngleLimit(data map[string]any, key string, dst *springbone.AngleLimit) {
	m, ok := data[key].(map[string]any)
	if !ok {
		return
	}
	readBool(m, "active", &dst.Active)
	readFloat(m, "min", &dst.Min)
	readFloat(m, "max", &dst.Max)
}
