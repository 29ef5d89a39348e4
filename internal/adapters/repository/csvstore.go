package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/pipeline"
	"github.com/okian/roas/internal/domain/table"
	"github.com/okian/roas/pkg/logger"
	"github.com/okian/roas/pkg/metrics"
)

// CSVStore reads and writes the source tables as CSV files in one
// directory. Files are read concurrently.
type CSVStore struct {
	dir    string
	files  map[string]string
	logger logger.Logger
}

// NewCSVStore creates a store rooted at dir.
func NewCSVStore(dir string, opts ...Option) *CSVStore {
	s := &CSVStore{
		dir: dir,
		files: map[string]string{
			model.TableInfluencers: FileInfluencers,
			model.TablePosts:       FilePosts,
			model.TableTracking:    FileTracking,
			model.TablePayouts:     FilePayouts,
		},
		logger: logger.Get().Named("repository"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the data directory.
func (s *CSVStore) Dir() string { return s.dir }

// Path returns the file path of a source table.
func (s *CSVStore) Path(source string) string {
	return filepath.Join(s.dir, s.files[source])
}

// Load implements Store.Load. Posts are optional: a missing posts file
// yields a nil table.
func (s *CSVStore) Load(ctx context.Context) (pipeline.Sources, error) {
	start := time.Now()
	src, err := s.load(ctx)
	ms := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordSourceLoad(metrics.OutcomeSourceUnavailable, ms)
		s.logger.Error(ctx, "failed to load sources", logger.String("dir", s.dir), logger.Error(err))
		return pipeline.Sources{}, err
	}
	metrics.RecordSourceLoad(metrics.OutcomeOK, ms)
	for name, t := range map[string]*table.Table{
		model.TableInfluencers: src.Influencers,
		model.TablePosts:       src.Posts,
		model.TableTracking:    src.Tracking,
		model.TablePayouts:     src.Payouts,
	} {
		metrics.UpdateSourceRows(name, t.Len())
	}
	s.logger.Info(ctx, "sources loaded",
		logger.String("dir", s.dir),
		logger.Int("tracking", src.Tracking.Len()),
		logger.Int("influencers", src.Influencers.Len()),
		logger.Int("payouts", src.Payouts.Len()),
		logger.Int("posts", src.Posts.Len()),
		logger.Float64("durationMs", ms),
	)
	return src, nil
}

func (s *CSVStore) load(ctx context.Context) (pipeline.Sources, error) {
	if s.dir == "" {
		return pipeline.Sources{}, ErrNoDirectory
	}
	var src pipeline.Sources
	g, ctx := errgroup.WithContext(ctx)
	for _, slot := range []struct {
		name     string
		dst      **table.Table
		optional bool
	}{
		{model.TableInfluencers, &src.Influencers, false},
		{model.TablePosts, &src.Posts, true},
		{model.TableTracking, &src.Tracking, false},
		{model.TablePayouts, &src.Payouts, false},
	} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := readFile(slot.name, s.Path(slot.name))
			switch {
			case err == nil:
				*slot.dst = t
				return nil
			case slot.optional && errors.Is(err, fs.ErrNotExist):
				s.logger.Debug(ctx, "optional source missing", logger.String("source", slot.name))
				return nil
			default:
				return &pipeline.SourceUnavailableError{Source: slot.name, Err: err}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return pipeline.Sources{}, err
	}
	return src, nil
}

func readFile(name, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(name, f)
}

// ReadTable parses CSV with a header row into a table.
func ReadTable(name string, r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := table.New(name, header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row := make(table.Row, len(header))
		for i, col := range header {
			if i >= len(rec) {
				break
			}
			if v := parseCell(rec[i]); v != nil {
				row[col] = v
			}
		}
		t.Append(row)
	}
	return t, nil
}

// WriteTable serializes t as CSV with a header row.
func WriteTable(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			rec[i] = formatCell(r[c])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save implements Store.Save. The directory is created when missing.
func (s *CSVStore) Save(ctx context.Context, src pipeline.Sources) error {
	if s.dir == "" {
		return ErrNoDirectory
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for name, t := range map[string]*table.Table{
		model.TableInfluencers: src.Influencers,
		model.TablePosts:       src.Posts,
		model.TableTracking:    src.Tracking,
		model.TablePayouts:     src.Payouts,
	} {
		if t == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeFile(s.Path(name), t); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		s.logger.Debug(ctx, "source written", logger.String("source", name), logger.Int("rows", t.Len()))
	}
	return nil
}

func (s *CSVStore) writeFile(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
