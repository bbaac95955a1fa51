package api

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"checkstyle/internal/config"
)

// FileStats is one per-file timing record kept by a fileset check for
// diagnostic output.
type FileStats struct {
	FileName    string
	FileSize    int64
	ParseTime   time.Duration
	WalkTime    time.Duration
	CommentTime time.Duration
	TotalTime   time.Duration
}

// Stats accumulates per-file records. Per-thread clones adopt the
// original's accumulator, so it is shared mutable state, hence the
// mutex.
type Stats struct {
	mu    sync.Mutex
	files []FileStats
}

// Add appends one record.
func (s *Stats) Add(fs FileStats) {
	s.mu.Lock()
	s.files = append(s.files, fs)
	s.mu.Unlock()
}

// Files returns a copy of the accumulated records.
func (s *Stats) Files() []FileStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FileStats, len(s.files))
	copy(out, s.files)
	return out
}

// WriteCSV emits the records as CSV rows with a header.
func (s *Stats) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "file,size,parse_ns,walk_ns,comments_ns,total_ns"); err != nil {
		return err
	}
	for _, fs := range s.Files() {
		_, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d\n",
			fs.FileName, fs.FileSize,
			fs.ParseTime.Nanoseconds(), fs.WalkTime.Nanoseconds(),
			fs.CommentTime.Nanoseconds(), fs.TotalTime.Nanoseconds())
		if err != nil {
			return err
		}
	}
	return nil
}

// BaseFileSetCheck provides the plumbing shared by fileset checks:
// configuration and context storage, file-extension filtering, per-file
// statistics and the clone back-reference. Concrete checks embed it and
// implement Process themselves.
type BaseFileSetCheck struct {
	cfg        *config.Config
	ctx        Context
	severity   Severity
	extensions []string
	charset    string
	original   FileSetCheck
	stats      *Stats
}

// Configure stores the configuration and applies the common "severity"
// and "fileExtensions" properties (comma separated, leading dot optional).
func (b *BaseFileSetCheck) Configure(cfg *config.Config) error {
	b.cfg = cfg
	b.severity = SeverityError
	if b.stats == nil {
		b.stats = &Stats{}
	}
	if raw, ok := cfg.Property("severity"); ok {
		severity, err := ParseSeverity(raw)
		if err != nil {
			return err
		}
		b.severity = severity
	}
	if raw, ok := cfg.Property("fileExtensions"); ok {
		b.SetFileExtensions(strings.Split(raw, ",")...)
	}
	return nil
}

// Configuration returns the stored configuration for clone replay.
func (b *BaseFileSetCheck) Configuration() *config.Config { return b.cfg }

// Contextualize stores the checker-provided context.
func (b *BaseFileSetCheck) Contextualize(ctx Context) error {
	b.ctx = ctx
	return nil
}

// Context returns the stored context for clone replay.
func (b *BaseFileSetCheck) Context() Context { return b.ctx }

// Init is a no-op by default.
func (b *BaseFileSetCheck) Init() error { return nil }

// Destroy is a no-op by default.
func (b *BaseFileSetCheck) Destroy() {}

// Concurrency defaults to undeclared; checks should override it.
func (b *BaseFileSetCheck) Concurrency() Concurrency { return ConcurrencyUndeclared }

// BeginProcessing remembers the run's charset.
func (b *BaseFileSetCheck) BeginProcessing(charset string) { b.charset = charset }

// FinishProcessing is a no-op by default.
func (b *BaseFileSetCheck) FinishProcessing() {}

// FinishCloning records which original instance this clone was made from
// and adopts its statistics accumulator, so end-of-run records cover
// every worker regardless of which clone processed the file.
func (b *BaseFileSetCheck) FinishCloning(original FileSetCheck) {
	b.original = original
	if src, ok := original.(interface{ Stats() *Stats }); ok {
		b.stats = src.Stats()
	}
}

// Original returns the instance this one was cloned from, or nil.
func (b *BaseFileSetCheck) Original() FileSetCheck { return b.original }

// Charset returns the charset announced by BeginProcessing.
func (b *BaseFileSetCheck) Charset() string { return b.charset }

// SetFileExtensions restricts the check to files with the given
// extensions. A missing leading dot is added; empty entries are dropped.
func (b *BaseFileSetCheck) SetFileExtensions(extensions ...string) {
	b.extensions = b.extensions[:0]
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		b.extensions = append(b.extensions, ext)
	}
}

// FileExtensions returns the configured extension filter.
func (b *BaseFileSetCheck) FileExtensions() []string { return b.extensions }

// Matches reports whether the file passes the extension filter. An empty
// filter accepts every file.
func (b *BaseFileSetCheck) Matches(text *FileText) bool {
	if len(b.extensions) == 0 {
		return true
	}
	for _, ext := range b.extensions {
		if strings.HasSuffix(text.Path, ext) {
			return true
		}
	}
	return false
}

// Severity returns the configured severity (error when unconfigured).
func (b *BaseFileSetCheck) Severity() Severity {
	if b.cfg == nil {
		return SeverityError
	}
	return b.severity
}

// Name returns the configured module name.
func (b *BaseFileSetCheck) Name() string {
	if b.cfg == nil {
		return ""
	}
	return b.cfg.Name()
}

// Stats returns the per-file statistics accumulator.
func (b *BaseFileSetCheck) Stats() *Stats {
	if b.stats == nil {
		b.stats = &Stats{}
	}
	return b.stats
}

// LogAt builds a violation carrying the check's severity and name.
func (b *BaseFileSetCheck) LogAt(set *ViolationSet, line, column int, key string, args ...any) {
	set.Add(NewViolation(line, column, b.Severity(), b.Name(), key, args...))
}
