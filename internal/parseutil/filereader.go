// Package parseutil contains utilities for reading jawk source code
// that is split across several files.
package parseutil

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/benhoyt/jawk/lexer"
)

// FileReader joins several program files (as given with repeated -f
// flags) into a single source, and maps line numbers in that source
// back to the file they came from.
type FileReader struct {
	files  []file
	source bytes.Buffer
}

type file struct {
	path      string
	startLine int // line number of the file's first line in the joined source
	lines     int
}

// ReadFiles reads each path in order into a new FileReader. The path
// "-" reads from stdin.
func ReadFiles(paths []string, stdin io.Reader) (*FileReader, error) {
	fr := &FileReader{}
	for _, path := range paths {
		if path == "-" {
			if err := fr.AddFile("<stdin>", stdin); err != nil {
				return nil, fmt.Errorf("reading program from stdin: %w", err)
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		err = fr.AddFile(path, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return fr, nil
}

// AddFile appends the contents of source, which came from path. A
// newline is added if the file doesn't end with one, so a statement
// can't run on into the next file.
func (fr *FileReader) AddFile(path string, source io.Reader) error {
	start := fr.source.Len()
	if _, err := fr.source.ReadFrom(source); err != nil {
		return err
	}
	if !bytes.HasSuffix(fr.source.Bytes(), []byte("\n")) {
		fr.source.WriteByte('\n')
	}
	lines := bytes.Count(fr.source.Bytes()[start:], []byte("\n"))
	startLine := 1
	if n := len(fr.files); n > 0 {
		startLine = fr.files[n-1].startLine + fr.files[n-1].lines
	}
	fr.files = append(fr.files, file{path, startLine, lines})
	return nil
}

// FileLine maps a line number in the joined source to a path and the
// line number within that file. It returns "", 0 if line is out of
// range.
func (fr *FileReader) FileLine(line int) (path string, fileLine int) {
	for _, f := range fr.files {
		if line >= f.startLine && line < f.startLine+f.lines {
			return f.path, line - f.startLine + 1
		}
	}
	return "", 0
}

// Locate formats pos as "path:line:col" relative to the file it falls
// in, or as "line:col" if it's outside every file (for example the
// EOF position after the last newline).
func (fr *FileReader) Locate(pos lexer.Position) string {
	path, line := fr.FileLine(pos.Line)
	if path == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", path, line, pos.Column)
}

// Paths returns the paths of the files added so far, in order.
func (fr *FileReader) Paths() []string {
	paths := make([]string, len(fr.files))
	for i, f := range fr.files {
		paths[i] = f.path
	}
	return paths
}

// Source returns the joined source of all files.
func (fr *FileReader) Source() []byte {
	return fr.source.Bytes()
}
