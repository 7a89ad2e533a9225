package domain

import (
	"fmt"
	"strings"
)

// Question represents the question section of a DNS message: the name, type,
// and class being asked about. See RFC 1035 §4.1.2.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question and validates its fields.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		Name:  name,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally valid.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("query name must not be empty")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// CacheKey returns the cache key for this question: lowercase(name):type:class.
func (q Question) CacheKey() string {
	return CacheKey(q.Name, q.Type, q.Class)
}

// CacheKey derives the cache key used by the answer cache (C5) from a name,
// type, and class. The name is lowercased; type and class are compared
// numerically so unknown/future types still produce a stable key.
func CacheKey(name string, t RRType, c RRClass) string {
	return fmt.Sprintf("%s:%d:%d", strings.ToLower(name), t, c)
}
