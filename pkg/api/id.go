package api

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	trailingHexID    = regexp.MustCompile(`[0-9a-fA-F]{32}$`)
	trailingDashedID = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ParseID normalizes a page or database reference into the dashed UUID
// form. It accepts dashed and undashed ids and page URLs whose last path
// segment ends in an id (".../My-Page-0123abcd...").
func ParseID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty id")
	}
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		ref = path.Base(u.Path)
	}
	m := trailingDashedID.FindString(ref)
	if m == "" {
		m = trailingHexID.FindString(ref)
	}
	if m == "" {
		return "", fmt.Errorf("no id in %q", ref)
	}
	id, err := uuid.Parse(m)
	if err != nil {
		return "", fmt.Errorf("invalid id %q: %w", m, err)
	}
	return id.String(), nil
}

// CanonicalID is ParseID for references that may not be ids at all: it
// returns the dashed form when ref holds an id and ref unchanged otherwise.
func CanonicalID(ref string) string {
	if id, err := ParseID(ref); err == nil {
		return id
	}
	return ref
}
