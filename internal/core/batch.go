package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAllowedExtensions are the file types accepted for upload.
var DefaultAllowedExtensions = []string{"csv", "xlsx", "xls"}

// Uploader loads one dataset. Satisfied by *Loader.
type Uploader interface {
	Upload(ctx context.Context, cfg ConnectionConfig, ds *Dataset, rawTable string) (int, error)
}

// DatasetReader parses a file on disk into a Dataset. ext is the lowercase
// extension without the dot.
type DatasetReader interface {
	ReadDataset(ctx context.Context, path, ext string) (*Dataset, error)
}

// UploadFile is one file of a batch.
type UploadFile struct {
	Name  string                        // client-supplied file name
	Open  func() (io.ReadCloser, error) // opens the file content
	Table string                        // overrides the table derived from Name when set
}

// BatchProcessor turns a batch of uploaded files into outcome lines.
// Files are processed strictly one after another.
type BatchProcessor struct {
	uploader Uploader
	reader   DatasetReader
	tempDir  string
	allowed  map[string]struct{}
	logger   *slog.Logger
}

// BatchOptions configures a BatchProcessor.
type BatchOptions struct {
	TempDir           string   // defaults to os.TempDir()
	AllowedExtensions []string // defaults to DefaultAllowedExtensions
	Logger            *slog.Logger
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(uploader Uploader, reader DatasetReader, opts BatchOptions) *BatchProcessor {
	exts := opts.AllowedExtensions
	if len(exts) == 0 {
		exts = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))] = struct{}{}
	}

	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BatchProcessor{
		uploader: uploader,
		reader:   reader,
		tempDir:  tempDir,
		allowed:  allowed,
		logger:   logger,
	}
}

// Allowed reports whether name has an accepted extension (case-insensitive).
func (p *BatchProcessor) Allowed(name string) bool {
	_, ok := p.allowed[extension(name)]
	return ok
}

// Process handles every file in order and returns one outcome per file.
// A failing file never stops the batch.
func (p *BatchProcessor) Process(ctx context.Context, cfg ConnectionConfig, files []UploadFile) []FileOutcome {
	logger := p.logger.With("batch_id", uuid.NewString())
	if ip, ua := ClientFromContext(ctx); ip != "" {
		logger = logger.With("client_ip", ip, "user_agent", ua)
	}
	logger.Info("batch started", "files", len(files), "target", cfg.String())

	outcomes := make([]FileOutcome, 0, len(files))
	for _, f := range files {
		o := p.ProcessFile(ctx, cfg, f)
		if o.OK() {
			logger.Info("file loaded", "file", o.FileName, "table", o.Table, "rows", o.Rows)
		} else {
			logger.Warn("file failed", "file", o.FileName, "kind", KindOf(o.Err).String(), "error", o.Err)
		}
		outcomes = append(outcomes, o)
	}

	logger.Info("batch finished", "files", len(files))
	return outcomes
}

// ProcessFile validates, stores, parses and loads a single file. The
// temporary copy is removed on every exit path.
func (p *BatchProcessor) ProcessFile(ctx context.Context, cfg ConnectionConfig, f UploadFile) (out FileOutcome) {
	start := time.Now()
	out.FileName = f.Name
	defer func() { out.Duration = time.Since(start) }()

	if !p.Allowed(f.Name) {
		out.Err = ErrInvalidFileType
		return out
	}

	filename := SecureFilename(f.Name)
	out.FileName = filename
	rawTable := strings.TrimSuffix(filename, filepath.Ext(filename))
	if f.Table != "" {
		rawTable = f.Table
	}
	out.Table = rawTable
	if clean, err := CleanTableName(rawTable); err == nil {
		out.Table = clean
	}

	path, err := p.saveTemp(f)
	if path != "" {
		defer p.removeTemp(path)
	}
	if err != nil {
		out.Err = newLoadError(ErrorUnexpected, err)
		return out
	}

	ds, err := p.reader.ReadDataset(ctx, path, extension(f.Name))
	if err != nil {
		out.Err = newLoadError(ErrorUnexpected, err)
		return out
	}
	if ds.Empty() {
		out.Err = newLoadError(ErrorEmptyInput, ErrEmptyDataset)
		return out
	}

	n, err := p.uploader.Upload(ctx, cfg, ds, rawTable)
	if err != nil {
		out.Err = err
		return out
	}
	out.Rows = n
	return out
}

// saveTemp copies the upload to a uniquely named file in tempDir. The
// returned path is non-empty whenever a file was created.
func (p *BatchProcessor) saveTemp(f UploadFile) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(p.tempDir, "upload_"+uuid.NewString()+"."+extension(f.Name))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return path, fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return path, fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

func (p *BatchProcessor) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}

// JoinOutcomes renders outcomes as lines joined by sep.
func JoinOutcomes(outcomes []FileOutcome, sep string) string {
	lines := make([]string, len(outcomes))
	for i, o := range outcomes {
		lines[i] = o.Line()
	}
	return strings.Join(lines, sep)
}

// extension returns the lowercase extension of name without the dot, or ""
// if name has none.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client-supplied file name to a safe base name:
// directory parts are dropped, whitespace runs become underscores, and
// characters outside [A-Za-z0-9_.-] are removed along with leading and
// trailing dots and underscores.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
