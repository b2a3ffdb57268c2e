// Package model defines the data structures shared by the viewspy tooling.
package model

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
}

// Source is a Go file selected for scanning.
type Source struct {
	Origin *File
	// Package is the import path of the file's package, or "main" for
	// commands. Empty when it could not be resolved.
	Package string
}
