package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// SplitCommaList splits a comma-joined query value into trimmed entries.
// Empty input yields nil so an absent filter stays absent.
func SplitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseOptionalBool accepts only the literal strings "true" and "false".
// Empty input means "no filter" and maps to nil.
func ParseOptionalBool(s string) (*bool, error) {
	switch s {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("expected \"true\" or \"false\", got %q", s)
}

// ParseUUID validates an id-keyed path parameter before any storage access.
func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id must be a well-formed identifier")
	}
	return id, nil
}
