package secondary

import "context"

// FileStore defines the secondary port for data directory file operations.
// Paths are absolute. Implementations wrap failures with the operation and path.
type FileStore interface {
	// ReadFile returns the file content, or (nil, nil) if the file does not exist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile writes content, creating parent directories as needed.
	WriteFile(ctx context.Context, path string, content []byte) error

	// Mkdir creates a directory and its parents. Existing directories are not an error.
	Mkdir(ctx context.Context, path string) error

	// RemoveAll removes a file or a directory tree. Absent paths are not an error.
	RemoveAll(ctx context.Context, path string) error

	// Remove removes a file or an empty directory. Absent paths are not an error;
	// a directory that still has entries is.
	Remove(ctx context.Context, path string) error

	// ListFiles returns the bare names of regular files in dir, or nil if dir is absent.
	ListFiles(ctx context.Context, dir string) ([]string, error)

	// ListEntries returns the bare names of every entry in dir, subdirectories
	// and links included, or nil if dir is absent.
	ListEntries(ctx context.Context, dir string) ([]string, error)

	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) (bool, error)
}
