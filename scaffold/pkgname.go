package scaffold

import (
	"regexp"
	"strings"
)

var (
	validPackageName = regexp.MustCompile(`^(?:@[a-z\d\-*~][a-z\d\-*._~]*/)?[a-z\d\-~][a-z\d\-._~]*$`)
	whitespace       = regexp.MustCompile(`\s+`)
	leadingDotsOrUs  = regexp.MustCompile(`^[._]`)
	invalidNameChars = regexp.MustCompile(`[^a-z\d\-~]+`)
)

// IsValidPackageName reports whether name is a valid package.json name.
func IsValidPackageName(name string) bool {
	return validPackageName.MatchString(name)
}

// ToValidPackageName turns a directory name into a package.json name.
func ToValidPackageName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = whitespace.ReplaceAllString(name, "-")
	name = leadingDotsOrUs.ReplaceAllString(name, "")
	return invalidNameChars.ReplaceAllString(name, "-")
}
