package results

import (
	"os"
	"path/filepath"
	"strings"
)

// OutputName is the decoded-text filename for a ciphertext file: its stem
// (everything before the first '.') plus "_decoded.txt".
func OutputName(filename string) string {
	stem, _, _ := strings.Cut(filepath.Base(filename), ".")
	return stem + "_decoded.txt"
}

// WriteDecoded writes plaintext to dir/OutputName(filename), creating dir
// if needed, and returns the path written.
func WriteDecoded(dir, filename, plaintext string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, OutputName(filename))
	if err := os.WriteFile(path, []byte(plaintext), 0644); err != nil {
		return "", err
	}
	return path, nil
}
