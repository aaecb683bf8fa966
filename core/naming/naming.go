// Package naming derives generated file names and C++ symbol names from
// header paths.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeDir flattens a directory path into a file name fragment: dots are
// dropped and path separators become underscores, so "./juce/buttons"
// becomes "_juce_buttons".
func SanitizeDir(dir string) string {
	clean := strings.ReplaceAll(dir, ".", "")
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	return clean
}

// Stem returns the base name of a file without its extension.
func Stem(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BindingFileName builds the name of the binding generated for the header
// fileName found in dir: prefix + sanitized dir + "_" + stem + ext.
func BindingFileName(prefix, dir, fileName, ext string) string {
	return prefix + SanitizeDir(dir) + "_" + Stem(fileName) + ext
}

// ModuleFileName is the name of the manifest file for a module.
func ModuleFileName(moduleName, ext string) string {
	return moduleName + ext
}

// ExportSymbol is the function name suffix used inside generated code for a
// header. Characters that cannot appear in a C++ identifier become
// underscores.
func ExportSymbol(fileName string) string {
	return Identifier(Stem(fileName))
}

// Identifier maps s onto a valid C/C++ identifier.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
