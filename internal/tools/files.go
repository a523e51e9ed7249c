package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File reading caps. Oversized files are refused outright; readable
// content is truncated so a single file cannot flood the prompt.
const (
	// MaxFileBytes is the largest file read_file will open.
	MaxFileBytes = 200 * 1024

	// MaxFileContent is the character cap on returned content.
	MaxFileContent = 4000
)

// FileReader reads small text files confined to a root directory.
// Paths that resolve outside the root are refused.
type FileReader struct {
	root string
}

// NewFileReader creates a FileReader rooted at the given directory.
func NewFileReader(root string) (*FileReader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	return &FileReader{root: abs}, nil
}

// Root returns the confinement root.
func (f *FileReader) Root() string {
	return f.root
}

// Read returns the file's content, or a descriptive denial, not-found,
// or too-large message. Every outcome is a user-presentable string;
// errors are reserved for unexpected I/O failures.
func (f *FileReader) Read(path string) (string, error) {
	// filepath.Join would silently re-root an absolute input under the
	// workspace; refuse it outright instead.
	if filepath.IsAbs(path) {
		return "Access denied: you can only read files inside the workspace folder.", nil
	}

	full := filepath.Clean(filepath.Join(f.root, path))

	// Confinement check on the resolved path, not the input: ".."
	// segments land outside the root here.
	if full != f.root && !strings.HasPrefix(full, f.root+string(filepath.Separator)) {
		return "Access denied: you can only read files inside the workspace folder.", nil
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("File not found: %s", path), nil
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Sprintf("Not a file: %s", path), nil
	}

	if info.Size() > MaxFileBytes {
		return fmt.Sprintf("File is too large to read (limit: %dKB).", MaxFileBytes/1024), nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	content := string(data)
	if len(content) > MaxFileContent {
		content = content[:MaxFileContent] + "\n\n[Content truncated...]"
	}

	return fmt.Sprintf("Content of %s:\n\n%s", path, content), nil
}
