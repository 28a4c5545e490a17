package validation

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fekuna/orderflow-service/internal/apperror"
)

// OptionalBool reads "true"/"false" query flags. Absent or unparsable values are nil.
func OptionalBool(q url.Values, key string) *bool {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func OptionalDate(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := ParseDate(v)
	if err != nil {
		return nil, apperror.Validation("Invalid data: " + key + ": Invalid date")
	}
	return &t, nil
}

func OptionalUUID(q url.Values, key string) (string, error) {
	v := q.Get(key)
	if v == "" {
		return "", nil
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", apperror.Validation("Invalid data: " + key + ": Invalid uuid")
	}
	return v, nil
}

// OneOf returns the query value when it is one of allowed, "" when absent.
func OneOf(q url.Values, key string, allowed ...string) (string, error) {
	v := q.Get(key)
	if v == "" {
		return "", nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", apperror.Validation("Invalid data: " + key + ": Invalid enum value")
}
