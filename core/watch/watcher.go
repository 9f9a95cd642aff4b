package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediascope/core/inspect"
	"mediascope/logger"
	"mediascope/model"
	"mediascope/repository"

	"github.com/fsnotify/fsnotify"
)

// mediaExts are the file extensions picked up in watch mode (lowercase).
var mediaExts = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".avi":  {},
	".webm": {},
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".m4a":  {},
	".ogg":  {},
}

// Watcher observes an ingest directory and extracts metadata for every media
// file created in it. Each new file produces one report in the report
// directory, named after the file's stem.
type Watcher struct {
	dir    string
	format model.InfoFormat
	svc    inspect.Service
	repo   repository.InspectionRepository // nil when history is disabled
}

// NewWatcher creates a watcher over dir using the given extraction service.
func NewWatcher(dir string, format model.InfoFormat, svc inspect.Service, repo repository.InspectionRepository) *Watcher {
	return &Watcher{dir: dir, format: format, svc: svc, repo: repo}
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	logger.Info("watching for media files", logger.String("dir", w.dir))

	processed := make(map[string]bool)
	for {
		select {
		case event := <-watcher.Events:
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !IsMediaFile(event.Name) || processed[event.Name] {
				continue
			}
			if len(processed) >= maxTracked {
				processed = make(map[string]bool)
			}
			processed[event.Name] = true
			if !waitForSettle(event.Name) {
				logger.Warn("file vanished before extraction", logger.String("path", event.Name))
				continue
			}
			w.extract(event.Name)
		case err := <-watcher.Errors:
			logger.Warn("watcher error", logger.ErrorField(err))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// maxTracked bounds the dedup map on long runs.
const maxTracked = 4096

// settleInterval is how long the file size must hold still before the file
// is considered fully written.
var settleInterval = 200 * time.Millisecond

// waitForSettle waits until the file's size stops changing, so the tool is
// not handed a file that is still being copied in. Returns false when the
// file disappeared; after a bounded wait the file is passed on regardless
// and the tool reports its own error.
func waitForSettle(path string) bool {
	var lastSize int64 = -1
	for i := 0; i < 25; i++ {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		if info.Size() == lastSize {
			return true
		}
		lastSize = info.Size()
		time.Sleep(settleInterval)
	}
	return true
}

// IsMediaFile reports whether the path has a recognized media extension.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := mediaExts[ext]
	return ok
}

// ReportStem derives a report file stem from a media file path.
func ReportStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (w *Watcher) extract(path string) {
	stem := ReportStem(path)
	req := &model.InfoRequest{
		Input:      path,
		Format:     w.format,
		OutputFile: &stem,
	}

	start := time.Now()
	resp, err := w.svc.GetInfo(req)

	record := &model.InspectionRecord{
		Input:      path,
		Engine:     string(model.EngineMediaInfo),
		Format:     w.format,
		Full:       true,
		Status:     model.InspectionCompleted,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		logger.Error("extraction failed", logger.String("input", path), logger.ErrorField(err))
		record.Status = model.InspectionFailed
		record.Error = err.Error()
	} else if resp.Output.File != nil {
		logger.Info("report written",
			logger.String("input", path),
			logger.String("report", *resp.Output.File))
		record.ReportPath = *resp.Output.File
	}

	if w.repo != nil {
		if err := w.repo.Create(record); err != nil {
			logger.Warn("failed to record inspection", logger.ErrorField(err))
		}
	}
}
