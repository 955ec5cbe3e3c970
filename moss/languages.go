package moss

import (
	"slices"
	"strings"
)

// Languages the MOSS server accepts, as listed by the official submission
// script. The server answers "no" to anything else during the handshake.
var supportedLanguages = []string{
	"a8086", "ada", "ascii", "c", "cc", "csharp", "fortran", "haskell",
	"java", "javascript", "lisp", "matlab", "mips", "ml", "modula2",
	"pascal", "perl", "plsql", "prolog", "python", "scheme", "spice",
	"vb", "vhdl",
}

// Common names instructors type that MOSS spells differently.
var languageAliases = map[string]string{
	"c++": "cc",
	"cpp": "cc",
	"c#":  "csharp",
	"cs":  "csharp",
	"js":  "javascript",
	"py":  "python",
}

// NormalizeLanguage lowercases lang and resolves common aliases to the name
// MOSS expects ("cpp" becomes "cc").
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if canonical, ok := languageAliases[lang]; ok {
		return canonical
	}
	return lang
}

// IsSupported reports whether lang (already normalized) is accepted by MOSS.
func IsSupported(lang string) bool {
	return slices.Contains(supportedLanguages, lang)
}

// Languages returns the accepted language names in sorted order.
func Languages() []string {
	return slices.Clone(supportedLanguages)
}
