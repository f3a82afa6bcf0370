package ports

// FileSystem is the file access the renderer host needs: YAML config and
// MP4 clips are read, PNG frames and playback summaries are written.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file at path. Readers never observe a partial frame.
	WriteFile(path string, data []byte) error

	// MkdirAll creates an output directory and its parents.
	MkdirAll(path string) error

	// Exists reports whether a clip, config file or output directory is present.
	Exists(path string) (bool, error)
}
