package crawler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// RecordWriter streams extraction records as JSON lines, optionally
// gzip-compressed. It is safe for concurrent use by crawl workers.
type RecordWriter struct {
	mu    sync.Mutex
	file  *os.File
	gz    *gzip.Writer
	out   io.Writer
	count int
}

// NewRecordWriter opens path for writing. "-" writes to stdout, in which
// case Close leaves the descriptor alone.
func NewRecordWriter(path string, compress bool) (*RecordWriter, error) {
	w := &RecordWriter{}
	if path == "-" {
		w.out = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		w.file = f
		w.out = f
	}
	if compress {
		w.gz = gzip.NewWriter(w.out)
		w.out = w.gz
	}
	return w, nil
}

// Write appends one record as a JSON line.
func (w *RecordWriter) Write(rec *FileRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.RelPath, err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.count++
	return nil
}

// Count reports how many records have been written.
func (w *RecordWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes the compressor and closes the file.
func (w *RecordWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return fmt.Errorf("flush gzip: %w", err)
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
