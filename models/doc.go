package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helpers for shaping loosely-typed store documents into typed records.
// Missing or unmappable fields degrade to zero values so downstream
// arithmetic never branches on absence.

func docString(doc bson.M, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docFloat(doc bson.M, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func docInt(doc bson.M, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func docBool(doc bson.M, key string) bool {
	if v, ok := doc[key].(bool); ok {
		return v
	}
	return false
}

func docStrings(doc bson.M, key string) []string {
	arr, ok := doc[key].(primitive.A)
	if !ok {
		if s, ok := doc[key].([]string); ok {
			return s
		}
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func docMap(doc bson.M, key string) bson.M {
	switch v := doc[key].(type) {
	case bson.M:
		return v
	case bson.D:
		return v.Map()
	case map[string]interface{}:
		return v
	}
	return bson.M{}
}

// docTime converts a store-native timestamp to a time.Time. Values that are
// already calendar dates pass through unchanged.
func docTime(doc bson.M, key string) time.Time {
	switch v := doc[key].(type) {
	case primitive.DateTime:
		return v.Time()
	case time.Time:
		return v
	}
	return time.Time{}
}
