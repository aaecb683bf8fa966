package treesitter

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
)

var (
	defineRe   = regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+(.*))?$`)
	annotateRe = regexp.MustCompile(`annotate\s*\(\s*"([^"]*)"`)
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// class JUCE_API Button : ... / struct EXPORT Point {
	exportMarkerRe = regexp.MustCompile(`\b(class|struct)(\s+)([A-Z][A-Z0-9_]*)(\s+)([A-Za-z_][A-Za-z0-9_]*)(\s*(?:[:{]|final\b|$))`)
)

type macro struct {
	name    string
	value   string
	pattern *regexp.Regexp
}

func newMacro(name, value string) macro {
	return macro{
		name:    name,
		value:   value,
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
	}
}

// DefinesFromArgs picks the -D definitions out of compiler arguments,
// accepting both "-DNAME=VALUE" and "-D NAME=VALUE".
func DefinesFromArgs(args []string) []string {
	var defines []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-D" && i+1 < len(args):
			i++
			defines = append(defines, args[i])
		case strings.HasPrefix(arg, "-D") && len(arg) > 2:
			defines = append(defines, arg[2:])
		}
	}
	return defines
}

// predefinedMacros turns NAME or NAME=VALUE definitions into macros, sorted
// by name. A bare NAME is defined as 1, as a compiler would.
func predefinedMacros(defines []string) []macro {
	var macros []macro
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			value = "1"
		}
		name = strings.TrimSpace(name)
		if !identRe.MatchString(name) {
			continue
		}
		macros = append(macros, newMacro(name, strings.TrimSpace(value)))
	}
	sort.Slice(macros, func(i, j int) bool { return macros[i].name < macros[j].name })
	return macros
}

// preprocess expands the object-like macros the grammar cannot see through:
// the predefined ones, and those defined in the header whose body carries an
// annotate attribute or is empty. An upper-case export marker left between
// a class key and the class name (class JUCE_API Button) is blanked out.
// Lines are kept in place so node positions still match the original file.
func preprocess(src []byte, predefined []macro) []byte {
	lines := strings.Split(string(src), "\n")
	macros := mergeMacros(collectMacros(lines), predefined)

	var out bytes.Buffer
	changed := false
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			out.WriteString(line)
			continue
		}
		expanded := line
		for _, m := range macros {
			expanded = m.pattern.ReplaceAllLiteralString(expanded, m.value)
		}
		expanded = stripExportMarkers(expanded)
		if expanded != line {
			changed = true
		}
		out.WriteString(expanded)
	}
	if !changed {
		return src
	}
	return out.Bytes()
}

// mergeMacros lets a definition in the header win over a predefined one.
func mergeMacros(local, predefined []macro) []macro {
	seen := make(map[string]bool, len(local))
	for _, m := range local {
		seen[m.name] = true
	}
	for _, m := range predefined {
		if !seen[m.name] {
			local = append(local, m)
		}
	}
	return local
}

func stripExportMarkers(line string) string {
	return exportMarkerRe.ReplaceAllStringFunc(line, func(match string) string {
		m := exportMarkerRe.FindStringSubmatch(match)
		if m[5] == "final" {
			return match
		}
		return m[1] + m[2] + strings.Repeat(" ", len(m[3])) + m[4] + m[5] + m[6]
	})
}

func collectMacros(lines []string) []macro {
	var macros []macro
	seen := map[string]bool{}
	for _, line := range lines {
		m := defineRe.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		value := strings.TrimSpace(m[2])
		if strings.HasSuffix(value, `\`) || strings.HasPrefix(value, "(") {
			continue
		}
		if value != "" && !annotateRe.MatchString(value) {
			continue
		}
		seen[m[1]] = true
		macros = append(macros, newMacro(m[1], value))
	}
	return macros
}

// annotationNames returns every annotate("...") argument found in text.
func annotationNames(text string) []string {
	var names []string
	for _, m := range annotateRe.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}
