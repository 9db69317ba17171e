package output

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/roomstats/internal/filex"
)

// Writer persists a report and returns where it went.
type Writer interface {
	Write(ctx context.Context, name string, rows any) (string, error)
}

// FileName is the output file name for a report: select_<name>.<ext>.
func FileName(name, ext string) string {
	return fmt.Sprintf("select_%s.%s", name, ext)
}

type FileWriter struct {
	dir    string
	enc    Encoder
	mirror Mirror
}

// NewFileWriter writes into dir with enc. mirror may be nil.
func NewFileWriter(dir string, enc Encoder, mirror Mirror) *FileWriter {
	return &FileWriter{dir: dir, enc: enc, mirror: mirror}
}

func (w *FileWriter) Encoder() Encoder { return w.enc }

func (w *FileWriter) Write(ctx context.Context, name string, rows any) (string, error) {
	dir, err := filex.EnsureDir(w.dir)
	if err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	var buf bytes.Buffer
	if err := w.enc.Encode(&buf, name, rows); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	fileName := FileName(name, w.enc.Extension())
	path := filepath.Join(dir, fileName)
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if w.mirror != nil {
		if err := w.mirror.Upload(ctx, fileName, buf.Bytes(), w.enc.ContentType()); err != nil {
			return path, err
		}
	}

	return path, nil
}
