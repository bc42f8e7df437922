package githunt

import (
	"fmt"
	"strings"
)

// SplitFullName splits an "owner/name" repository identifier into its parts.
func SplitFullName(fullName string) (string, string, error) {
	owner, name, found := strings.Cut(fullName, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository full name: %q", fullName)
	}
	return owner, name, nil
}

// IsValidFullName reports whether fullName has the "owner/name" shape.
func IsValidFullName(fullName string) bool {
	_, _, err := SplitFullName(fullName)
	return err == nil
}
