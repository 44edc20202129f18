package alias

import (
	"fmt"
	"strings"
	"unicode"
)

// Namespace partitions the alias table. An alias text is unique within one
// namespace only; the same text may point at different IDs across namespaces.
type Namespace string

const (
	NamespaceLeague  Namespace = "league"
	NamespaceTeam    Namespace = "team"
	NamespaceFixture Namespace = "fixture"
	NamespaceUser    Namespace = "user"
)

// Namespaces lists every valid namespace in a stable order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceLeague, NamespaceTeam, NamespaceFixture, NamespaceUser}
}

func ParseNamespace(value string) (Namespace, error) {
	switch Namespace(strings.ToLower(strings.TrimSpace(value))) {
	case NamespaceLeague:
		return NamespaceLeague, nil
	case NamespaceTeam:
		return NamespaceTeam, nil
	case NamespaceFixture:
		return NamespaceFixture, nil
	case NamespaceUser:
		return NamespaceUser, nil
	default:
		return "", fmt.Errorf("invalid namespace %q: valid values are league, team, fixture, user", value)
	}
}

// Alias maps a human-readable name to a numeric entity ID. Aliases are global:
// any user may set or overwrite any alias, last writer wins.
type Alias struct {
	Namespace Namespace
	Text      string
	TargetID  int64
}

// Normalize prepares alias text for storage and lookup. Resolution is
// case-insensitive, so both paths must normalize the same way.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsNumeric reports whether the text consists entirely of digits. Numeric
// alias texts are rejected so that aliases can never shadow a literal ID.
func IsNumeric(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
