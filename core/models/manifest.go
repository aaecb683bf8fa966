package models

import (
	"github.com/tristendillon/cppbind/core/logger"
)

// BindingFile records one generated binding and the header it came from.
type BindingFile struct {
	Header     string // path as discovered by the walker
	RelPath    string // slash separated, relative to the input root
	HeaderName string // base name of the header
	OutputName string
	OutputPath string
	Symbol     string // export function name used inside generated code
	Classes    int
}

// ModuleManifest accumulates the bindings produced during one run. Files
// keep discovery order.
type ModuleManifest struct {
	ModuleName string
	Files      []BindingFile
}

func NewModuleManifest(moduleName string) *ModuleManifest {
	return &ModuleManifest{
		ModuleName: moduleName,
		Files:      []BindingFile{},
	}
}

func (m *ModuleManifest) Add(file BindingFile) {
	m.Files = append(m.Files, file)
}

// Merge appends the files of other after the files already recorded.
func (m *ModuleManifest) Merge(other *ModuleManifest) {
	if other == nil {
		return
	}
	m.Files = append(m.Files, other.Files...)
}

func (m *ModuleManifest) Len() int {
	return len(m.Files)
}

func (m *ModuleManifest) OutputNames() []string {
	names := make([]string, len(m.Files))
	for i, f := range m.Files {
		names[i] = f.OutputName
	}
	return names
}

func (m *ModuleManifest) PrintTree(level logger.LogLevel) {
	log := logger.GetLogFromLevel(level)
	log("%s", m.ModuleName)
	for i, f := range m.Files {
		branch := "├─"
		if i == len(m.Files)-1 {
			branch = "└─"
		}
		log("  %s %s -> %s (%d %s)", branch, f.RelPath, f.OutputName, f.Classes, plural(f.Classes, "class", "classes"))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
