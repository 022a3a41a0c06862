package unidata

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadArchiveLines opens the zip archive named by info under dataDir and
// returns the line-split text of the member at info.Path. Trailing
// whitespace is stripped from each line.
func ReadArchiveLines(dataDir string, info PathInfo) ([]string, error) {
	archivePath := filepath.Join(dataDir, info.Archive)
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	member, err := reader.Open(info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in %s: %w", info.Path, info.Archive, err)
	}
	defer member.Close()

	var lines []string
	scanner := bufio.NewScanner(member)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", info.Path, err)
	}
	return lines, nil
}

// ReadArchiveMember returns the raw bytes of a named member of a zip
// archive under dataDir. Used for the JSON reverse-normalization maps.
func ReadArchiveMember(dataDir, archive, member string) ([]byte, error) {
	archivePath := filepath.Join(dataDir, archive)
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	file, err := reader.Open(member)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in %s: %w", member, archive, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", member, err)
	}
	return data, nil
}
