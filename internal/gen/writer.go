package gen

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory on fs.
// It creates the directory if it doesn't exist.
func WriteFiles(fs afero.Fs, files []GeneratedFile, outputDir string) error {
	err := fs.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := afero.WriteFile(fs, outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// Stale returns the generated files in outputDir whose content differs from
// what is on disk, including files not written yet.
func Stale(fs afero.Fs, files []GeneratedFile, outputDir string) ([]string, error) {
	var out []string

	for _, file := range files {
		current, err := afero.ReadFile(fs, filepath.Join(outputDir, file.Filename))
		if err != nil {
			exists, existsErr := afero.Exists(fs, filepath.Join(outputDir, file.Filename))
			if existsErr != nil || exists {
				return nil, fmt.Errorf("reading %s: %w", file.Filename, err)
			}

			out = append(out, file.Filename)

			continue
		}

		if string(current) != string(file.Content) {
			out = append(out, file.Filename)
		}
	}

	return out, nil
}
