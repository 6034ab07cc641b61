// Package backup copies job definitions out of the scheduler into a
// line-oriented artifact and replays such an artifact back into it.
//
// An artifact holds one EncodeRecord line per job, newline-terminated, in
// the order the scheduler listed the jobs. It is written to stdout or staged
// in TempDir and uploaded to the blob store.
package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nomadoctor/internal/history"
	"nomadoctor/internal/nomad"
	"nomadoctor/pkg/s3"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ArtifactName is the staging file used for both uploads and downloads
const ArtifactName = "nomadoctor_backup"

// maxRecordSize bounds a single artifact line
const maxRecordSize = 64 << 20

var ErrNoStore = errors.New("blob store is not configured")

// Scheduler is the part of the scheduler API a backup needs
type Scheduler interface {
	ListJobs(ctx context.Context) ([]nomad.JobSummary, error)
	ReadJob(ctx context.Context, name string) ([]byte, error)
	RegisterJob(ctx context.Context, definition json.RawMessage) ([]byte, error)
}

// Store moves artifacts to and from the blob store
type Store interface {
	Upload(ctx context.Context, loc s3.Location, path string) error
	Download(ctx context.Context, loc s3.Location, path string) error
}

type Options struct {
	TempDir     string
	Concurrency int  // Jobs fetched or deployed at once; 1 keeps everything sequential
	KeepLocal   bool // Leave the staged artifact on disk after a successful upload
	Stdout      io.Writer
}

type Service struct {
	scheduler Scheduler
	store     Store
	history   history.Recorder
	opts      Options
	logger    zerolog.Logger
}

// NewService wires a Service. store may be nil when no s3:// locations are used.
func NewService(scheduler Scheduler, store Store, recorder history.Recorder, opts Options, logger zerolog.Logger) *Service {
	if opts.TempDir == "" {
		opts.TempDir = "."
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if recorder == nil {
		recorder = history.Nop{}
	}

	return &Service{
		scheduler: scheduler,
		store:     store,
		history:   recorder,
		opts:      opts,
		logger:    logger,
	}
}

// ListJobs returns the jobs worth backing up. Children of periodic and
// parameterized jobs are dropped since the scheduler recreates them.
func (s *Service) ListJobs(ctx context.Context) ([]nomad.JobSummary, error) {
	jobs, err := s.scheduler.ListJobs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list nomad jobs")
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	kept := make([]nomad.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		if job.IsChild() {
			s.logger.Debug().Str("job", job.Name).Str("parent", job.ParentID).Msg("skipping child job")
			continue
		}
		kept = append(kept, job)
	}

	s.logger.Info().Int("jobs", len(kept)).Int("skipped", len(jobs)-len(kept)).Msg("listed jobs")
	return kept, nil
}

// JobNames extracts the names in order
func JobNames(jobs []nomad.JobSummary) []string {
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name
	}
	return names
}

// FetchDefinitions reads and encodes each job definition. A job that cannot
// be read is logged and left out; the result keeps the order of names.
func (s *Service) FetchDefinitions(ctx context.Context, names []string) ([]string, Report) {
	slots := make([]string, len(names))
	fetched := make([]bool, len(names))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, name := range names {
		g.Go(func() error {
			body, err := s.scheduler.ReadJob(ctx, name)
			if err != nil {
				s.logger.Error().Err(err).Str("job", name).Msg("failed to fetch job definition")
				return nil
			}
			slots[i] = EncodeRecord(body)
			fetched[i] = true
			return nil
		})
	}
	_ = g.Wait()

	records := make([]string, 0, len(names))
	var report Report
	for i, name := range names {
		if !fetched[i] {
			report.Failed = append(report.Failed, name)
			continue
		}
		records = append(records, slots[i])
		report.Succeeded = append(report.Succeeded, name)
	}

	s.logger.Info().Int("fetched", len(report.Succeeded)).Int("failed", len(report.Failed)).Msg("fetched job definitions")
	return records, report
}

// WriteBackup prints records to stdout when destination is empty, otherwise
// stages them in TempDir and uploads the file to the s3:// destination.
func (s *Service) WriteBackup(ctx context.Context, records []string, destination string) error {
	if destination == "" {
		w := bufio.NewWriter(s.opts.Stdout)
		for _, record := range records {
			if _, err := fmt.Fprintln(w, record); err != nil {
				s.logger.Error().Err(err).Msg("failed to write backup to stdout")
				return fmt.Errorf("failed to write backup: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			s.logger.Error().Err(err).Msg("failed to write backup to stdout")
			return fmt.Errorf("failed to write backup: %w", err)
		}
		return nil
	}

	loc, err := s3.ParseLocation(destination)
	if err != nil {
		s.logger.Error().Err(err).Str("destination", destination).Msg("invalid backup destination")
		return err
	}
	if s.store == nil {
		return ErrNoStore
	}

	path := s.artifactPath()
	if err := writeArtifact(path, records); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write backup file")
		return err
	}

	if err := s.store.Upload(ctx, loc, path); err != nil {
		s.logger.Error().Err(err).Str("destination", destination).Msg("failed to upload backup")
		return fmt.Errorf("failed to upload backup: %w", err)
	}
	s.logger.Info().Str("destination", destination).Int("records", len(records)).Msg("uploaded backup")

	if !s.opts.KeepLocal {
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove backup file")
		}
	}

	return nil
}

// Backup lists, fetches and writes every non-child job
func (s *Service) Backup(ctx context.Context, destination string) (Report, error) {
	started := time.Now()

	jobs, err := s.ListJobs(ctx)
	if err != nil {
		return Report{}, err
	}

	records, report := s.FetchDefinitions(ctx, JobNames(jobs))

	if err := s.WriteBackup(ctx, records, destination); err != nil {
		return report, err
	}

	s.RecordBackup(ctx, destination, report, started)
	return report, nil
}

// RecordBackup stores a finished backup in the run history. Backup calls it
// itself; callers driving ListJobs, FetchDefinitions and WriteBackup step by
// step call it once the artifact is written.
func (s *Service) RecordBackup(ctx context.Context, destination string, report Report, started time.Time) {
	s.record(ctx, history.OperationBackup, destination, report, started)
}

// Restore redeploys every record of the artifact at source, which is either
// an s3:// location or a local file. A record that fails to decode or deploy
// is logged and skipped.
func (s *Service) Restore(ctx context.Context, source string) (Report, error) {
	started := time.Now()

	path := source
	if s3.IsLocation(source) {
		loc, err := s3.ParseLocation(source)
		if err != nil {
			s.logger.Error().Err(err).Str("source", source).Msg("invalid backup source")
			return Report{}, err
		}
		if s.store == nil {
			return Report{}, ErrNoStore
		}

		path = s.artifactPath()
		if err := s.store.Download(ctx, loc, path); err != nil {
			s.logger.Error().Err(err).Str("source", source).Msg("failed to download backup")
			return Report{}, fmt.Errorf("failed to download backup: %w", err)
		}
		defer func() {
			if err := os.Remove(path); err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove backup file")
			}
		}()
	}

	file, err := os.Open(path)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("failed to open backup")
		return Report{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer file.Close()

	report, err := s.deployAll(ctx, file)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("failed to read backup")
		return report, err
	}

	s.logger.Info().Int("deployed", len(report.Succeeded)).Int("failed", len(report.Failed)).Msg("restored jobs")
	s.record(ctx, history.OperationRestore, source, report, started)
	return report, nil
}

func (s *Service) deployAll(ctx context.Context, r io.Reader) (Report, error) {
	b := new(reportBuilder)

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := lineNo
		g.Go(func() error {
			s.deploy(ctx, n, line, b)
			return nil
		})
	}
	_ = g.Wait()

	if err := scanner.Err(); err != nil {
		return b.report, fmt.Errorf("failed to read backup: %w", err)
	}
	return b.report, nil
}

func (s *Service) deploy(ctx context.Context, lineNo int, line string, b *reportBuilder) {
	def, err := DecodeRecord(line)
	if err != nil {
		s.logger.Error().Err(err).Int("line", lineNo).Msg("failed to decode job definition")
		b.failure(fmt.Sprintf("line %d", lineNo))
		return
	}

	resp, err := s.scheduler.RegisterJob(ctx, def.Raw)
	if err != nil {
		s.logger.Error().Err(err).Str("job", def.Name).Msg("failed to deploy job")
		b.failure(def.Name)
		return
	}

	s.logger.Info().Str("job", def.Name).Str("response", strings.TrimSpace(string(resp))).Msg("deployed job")
	b.success(def.Name)
}

func (s *Service) record(ctx context.Context, operation, target string, report Report, started time.Time) {
	run := history.Run{
		Operation:  operation,
		Target:     target,
		Succeeded:  len(report.Succeeded),
		Failed:     len(report.Failed),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := s.history.Record(ctx, run); err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("failed to record run history")
	}
}

func (s *Service) artifactPath() string {
	return filepath.Join(s.opts.TempDir, ArtifactName)
}

func writeArtifact(path string, records []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, record := range records {
		if _, err := w.WriteString(record + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("failed to write backup file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	return file.Close()
}
