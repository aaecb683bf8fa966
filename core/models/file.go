package models

// DiscoveredHeader is a header file found by the walker.
type DiscoveredHeader struct {
	Path    string // path as walked, input root included
	Dir     string // directory part of Path
	Name    string // base name
	RelPath string // slash separated, relative to the input root
}
