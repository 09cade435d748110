package decisionlog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONL appends entries as JSON lines to a daily file under dir.
type JSONL struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewJSONL creates a JSON-lines sink writing under dir.
func NewJSONL(dir string) *JSONL {
	return &JSONL{dir: dir, now: time.Now}
}

func (j *JSONL) dailyPath(t time.Time) string {
	return filepath.Join(j.dir, t.UTC().Format("2006-01-02")+".jsonl")
}

// Append writes one entry to the current day's file. The entry's Time field
// is stamped here so callers never have to set it.
func (j *JSONL) Append(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().UTC()
	e.Time = now.Format(time.RFC3339)
	p := j.dailyPath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Close is a no-op: files are opened per append.
func (j *JSONL) Close() error { return nil }

// CompressOlder gzips daily files older than retentionDays and removes the
// originals. A zero or negative retention disables compression.
func (j *JSONL) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			return os.Remove(p)
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 != nil {
			_ = gw.Close()
			_ = out.Close()
			return nil
		}
		_ = gw.Close()
		_ = out.Close()
		return os.Remove(p)
	})
}
