package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Format is the on-disk kind of a chain source.
type Format int

const (
	FormatUnknown  Format = iota
	FormatSnapshot        // msgpack chain snapshot
	FormatSeed            // YAML seed table
	FormatCorpus          // plain text, one passage per line
)

var (
	// ErrUnknownFormat is returned for files whose extension maps to no Format.
	ErrUnknownFormat = errors.New("unknown chain source format")
	// ErrBadMagic is returned when a snapshot does not start with the expected magic string.
	ErrBadMagic = errors.New("not a chain snapshot")
	// ErrUnsupportedVersion is returned for snapshots written by a newer format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrInvalidToken is returned for seed tokens holding the context key separator (U+001F).
	ErrInvalidToken = errors.New("token contains the unit separator")
)

// FormatInfo describes a source format.
type FormatInfo struct {
	Format      Format
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[Format]FormatInfo{
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Chain Snapshot",
		Extensions:  []string{".chain"},
		MinSize:     int64(len(snapshotMagic)),
	},
	FormatSeed: {
		Format:      FormatSeed,
		Description: "Seed Table",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     1,
	},
	FormatCorpus: {
		Format:      FormatCorpus,
		Description: "Text Corpus",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
}

func (f Format) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// FormatInfoFor returns the description of format.
func FormatInfoFor(format Format) (FormatInfo, bool) {
	info, ok := supportedFormats[format]
	return info, ok
}

// FormatForExt maps a file extension (with its dot) to a Format.
func FormatForExt(ext string) Format {
	ext = strings.ToLower(ext)
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// DetectFormat picks the format of filename by extension and checks the file against it.
func DetectFormat(filename string) (Format, error) {
	format := FormatForExt(filepath.Ext(filename))
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
	}
	if err := ValidateFile(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// ValidateFile checks that filename is plausibly of the given format without fully decoding it.
func ValidateFile(filename string, format Format) error {
	info, ok := supportedFormats[format]
	if !ok {
		return fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for %s (minimum: %d bytes)",
			filename, stat.Size(), info.Description, info.MinSize)
	}

	if format == FormatSnapshot {
		return validateSnapshotHeader(filename)
	}
	log.Debugf("%s validated as %s", filename, info.Description)
	return nil
}

// validateSnapshotHeader looks for the magic string near the start of the file.
// msgpack encodes the map header and key before it, so an exact offset is not fixed.
func validateSnapshotHeader(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	head := make([]byte, 64)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if !bytes.Contains(head[:n], []byte(snapshotMagic)) {
		return fmt.Errorf("%s: %w", filename, ErrBadMagic)
	}
	return nil
}

// expandSources turns directories into the supported files they contain, in name order.
func expandSources(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source %s: %w", p, err)
		}
		if !stat.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read source dir %s: %w", p, err)
		}
		found := 0
		for _, e := range entries {
			if e.IsDir() || FormatForExt(filepath.Ext(e.Name())) == FormatUnknown {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
			found++
		}
		if found == 0 {
			log.Warnf("No chain sources found in %s", p)
		}
	}
	return out, nil
}
