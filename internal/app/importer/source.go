package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	extJSONL   = ".jsonl"
	extJSONLGz = ".jsonl.gz"
)

// ErrNoSources is returned when the input directory holds no dump files.
var ErrNoSources = errors.New("no JSONL files found")

// Source is one dump file; its base name is the edition code (en.jsonl → en).
type Source struct {
	Path    string
	Edition string
}

// DiscoverSources lists the dump files in dir. With edition set only that
// edition is returned. Plain .jsonl wins over .jsonl.gz for the same edition.
func DiscoverSources(dir, edition string) ([]Source, error) {
	if edition != "" {
		for _, ext := range []string{extJSONL, extJSONLGz} {
			path := filepath.Join(dir, edition+ext)
			if _, err := os.Stat(path); err == nil {
				return []Source{{Path: path, Edition: edition}}, nil
			}
		}
		return nil, fmt.Errorf("edition %q in %s: %w", edition, dir, ErrNoSources)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	byEdition := make(map[string]Source)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		var ed string
		switch {
		case strings.HasSuffix(name, extJSONLGz):
			ed = strings.TrimSuffix(name, extJSONLGz)
			if _, ok := byEdition[ed]; ok {
				continue
			}
		case strings.HasSuffix(name, extJSONL):
			ed = strings.TrimSuffix(name, extJSONL)
		default:
			continue
		}
		if ed == "" {
			continue
		}
		byEdition[ed] = Source{Path: filepath.Join(dir, name), Edition: ed}
	}

	if len(byEdition) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSources)
	}

	sources := make([]Source, 0, len(byEdition))
	for _, s := range byEdition {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Edition < sources[j].Edition })

	return sources, nil
}

// openSource opens path, transparently decompressing .gz files.
func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}
