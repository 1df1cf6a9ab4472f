// Package storage defines the rooted file-system abstraction used by the tools.
package storage

// Provider is the interface for file operations under a single root.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// Dirs returns the names of the immediate subdirectories of dir, sorted.
	Dirs(dir string) ([]string, error)
	// Files walks dir and returns every file whose extension is in exts,
	// skipping any directory whose name is in skipDirs together with its subtree.
	Files(dir string, exts, skipDirs []string) ([]string, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, keeping the mode of an existing file.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath. It fails if newPath already exists.
	Move(oldPath, newPath string) error
}
