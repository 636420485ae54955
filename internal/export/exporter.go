package export

import (
	"context"
	"sync"

	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/realization"
	"github.com/newthinker/realize/internal/storage/archive"
	"go.uber.org/zap"
)

// DefaultFilename is the fixed artifact name overwritten by every run.
const DefaultFilename = "realization_result.csv"

// Artifact describes a written export.
type Artifact struct {
	Filename string
	Location string
	Rows     int
	Data     []byte
}

// Exporter writes the realization table to a single fixed artifact.
// Writes are serialized so concurrent runs never interleave.
type Exporter struct {
	mu       sync.Mutex
	storage  archive.Storage
	filename string
	bom      bool
	logger   *zap.Logger
}

// Options configures an Exporter.
type Options struct {
	Filename string
	BOM      bool
}

// NewExporter creates an exporter on top of storage.
func NewExporter(storage archive.Storage, opts Options, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	return &Exporter{
		storage:  storage,
		filename: opts.Filename,
		bom:      opts.BOM,
		logger:   logger,
	}
}

// Filename returns the artifact name.
func (e *Exporter) Filename() string {
	return e.filename
}

// Export encodes records and replaces the artifact.
func (e *Exporter) Export(ctx context.Context, records []realization.Record) (*Artifact, error) {
	data, err := EncodeCSV(records, e.bom)
	if err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.storage.Write(ctx, e.filename, data); err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}

	loc := e.storage.Location(e.filename)
	e.logger.Debug("export written", zap.String("location", loc), zap.Int("rows", len(records)))

	return &Artifact{
		Filename: e.filename,
		Location: loc,
		Rows:     len(records),
		Data:     data,
	}, nil
}

// Latest returns the last written artifact, or ErrNoData if none exists yet.
func (e *Exporter) Latest(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, err := e.storage.Exists(ctx, e.filename)
	if err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}
	if !ok {
		return nil, core.ErrNoData
	}
	data, err := e.storage.Read(ctx, e.filename)
	if err != nil {
		return nil, core.WrapError(core.ErrExportFailed, err)
	}
	return data, nil
}
