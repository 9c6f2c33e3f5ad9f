package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Library returns the built-in helper library. Configurations enable entries
// by name through generator.lambdas; Go callers may pass the whole map.
func Library() HelperMap {
	return HelperMap{
		"snake":   Snake,
		"kebab":   Kebab,
		"camel":   Camel,
		"pascal":  Pascal,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"trim":    strings.TrimSpace,
		"replace": strings.ReplaceAll,
		"join":    join,
		"quote":   quote,
		"indent":  indent,
		"default": defaultValue,
		"plural":  Plural,
		"goType":  GoType,
		"uuid":    newUUID,
	}
}

// Select returns the library entries named in names. Unknown names are an
// error so typos in configurations surface before rendering.
func Select(lib HelperMap, names []string) (HelperMap, error) {
	out := make(HelperMap, len(names))
	for _, name := range names {
		fn, ok := lib[name]
		if !ok {
			return nil, fmt.Errorf("unknown helper %q", name)
		}
		out[name] = fn
	}
	return out, nil
}

func Snake(s string) string {
	return strings.Join(lowerWords(s), "_")
}

func Kebab(s string) string {
	return strings.Join(lowerWords(s), "-")
}

func Camel(s string) string {
	words := lowerWords(s)
	for i := 1; i < len(words); i++ {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

func Pascal(s string) string {
	words := lowerWords(s)
	for i := range words {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

// Plural is a deliberately small English pluralizer for identifiers.
func Plural(word string) string {
	switch {
	case word == "":
		return ""
	case strings.HasSuffix(word, "s"), strings.HasSuffix(word, "x"),
		strings.HasSuffix(word, "ch"), strings.HasSuffix(word, "sh"):
		return word + "es"
	case strings.HasSuffix(word, "y") && len(word) > 1 && !strings.ContainsRune("aeiou", rune(word[len(word)-2])):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

// GoType maps a schema type name to a Go type.
func GoType(schemaType string) string {
	switch schemaType {
	case "integer":
		return "int64"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "string":
		return "string"
	case "array":
		return "[]any"
	case "object", "":
		return "map[string]any"
	default:
		return Pascal(schemaType)
	}
}

func join(sep string, items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, sep)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func indent(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func defaultValue(def, given any) any {
	if given == nil {
		return def
	}
	if s, ok := given.(string); ok && s == "" {
		return def
	}
	return given
}

func newUUID() string {
	return uuid.NewString()
}

// lowerWords splits an identifier on separators and case boundaries and
// lowercases each word: "petStore_ID" -> [pet store id].
func lowerWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r := []rune(word)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
