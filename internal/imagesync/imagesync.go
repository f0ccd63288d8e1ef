// Package imagesync mirrors product images from the source site into object
// storage and rewrites stored image URLs to the mirror.
package imagesync

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
	"github.com/stroymet/catalog-ingest/internal/platform/objstore"
	"golang.org/x/sync/errgroup"
)

// rewriteBatchSize bounds URL rewrite batches.
const rewriteBatchSize = 200

// uploadDirPattern matches the per-file numeric upload directory the source
// site puts before every image name. The name after it is stable across
// re-uploads, the directory is not.
var uploadDirPattern = regexp.MustCompile(`/\d+/([^/]+)$`)

// Fetcher downloads image bytes.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Storage reads stored image references and rewrites their URLs.
type Storage interface {
	ProductImages(ctx context.Context) ([]models.ProductImage, error)
	ImagesByURLSubstring(ctx context.Context, needle string, afterID int, limit int) ([]models.ProductImage, error)
	UpdateImageURL(ctx context.Context, imageID int, url string) error
}

// ObjectStore is the mirror bucket.
type ObjectStore interface {
	List(ctx context.Context, folder string) ([]string, error)
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	PublicURL(objectPath string) string
}

// Syncer mirrors images in three phases: scan stored references for source
// URLs, download and upload what the bucket doesn't have yet, then rewrite
// stored URLs to the mirror. Progress is exposed through Status.
type Syncer struct {
	fetcher      Fetcher
	storage      Storage
	store        ObjectStore
	status       *Status
	sourceDomain string
	folder       string
	delay        time.Duration
	concurrency  int
	logger       *zerolog.Logger
}

// NewSyncer returns new Syncer. sourceDomain selects which stored URLs are
// mirrored, folder is the bucket prefix uploads go under.
func NewSyncer(
	fetcher Fetcher,
	storage Storage,
	store ObjectStore,
	status *Status,
	sourceDomain string,
	folder string,
	delay time.Duration,
	concurrency int,
	logger *zerolog.Logger,
) *Syncer {
	if concurrency < 1 {
		concurrency = 1
	}

	return &Syncer{
		fetcher:      fetcher,
		storage:      storage,
		store:        store,
		status:       status,
		sourceDomain: sourceDomain,
		folder:       folder,
		delay:        delay,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// Run executes a full sync. The error is also recorded on Status, so the
// endpoint keeps reporting it after the run is gone.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.run(ctx); err != nil {
		s.status.fail(err)
		return err
	}

	s.status.setPhase(PhaseDone)
	return nil
}

func (s *Syncer) run(ctx context.Context) error {
	s.status.setPhase(PhaseScanning)

	pending, skipped, err := s.scan(ctx)
	if err != nil {
		return err
	}
	s.status.setTotal(len(pending)+skipped, skipped)

	s.logger.Info().
		Int("pending", len(pending)).
		Int("skipped", skipped).
		Msg("image scan done")

	s.status.setPhase(PhaseDownloading)
	if err := s.download(ctx, pending); err != nil {
		return err
	}

	s.status.setPhase(PhaseRewriting)
	return s.rewrite(ctx)
}

// scan collects source image URLs keyed by canonical file name, dropping
// the ones the bucket already holds. Returns how many were dropped.
func (s *Syncer) scan(ctx context.Context) (map[string]string, int, error) {
	images, err := s.storage.ProductImages(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("can't list stored images: %w", err)
	}

	bySource := make(map[string]string)
	for _, image := range images {
		source := image.SourceURL
		if source == "" {
			source = image.URL
		}
		if !s.fromSource(source) {
			continue
		}

		name := CanonicalName(source)
		if name == "" {
			continue
		}
		if _, ok := bySource[name]; !ok {
			bySource[name] = source
		}
	}

	existing, err := s.store.List(ctx, s.folder)
	if err != nil {
		return nil, 0, fmt.Errorf("can't list bucket: %w", err)
	}

	skipped := 0
	for _, name := range existing {
		if _, ok := bySource[name]; ok {
			delete(bySource, name)
			skipped++
		}
	}

	return bySource, skipped, nil
}

// download mirrors pending images with a bounded worker pool. A single
// broken image is counted and skipped, it doesn't stop the sync.
func (s *Syncer) download(ctx context.Context, pending map[string]string) error {
	type job struct {
		name   string
		source string
	}

	jobs := make([]job, 0, len(pending))
	for name, source := range pending {
		jobs = append(jobs, job{name: name, source: source})
	}

	var next atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)

	workers := s.concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			for {
				ix := int(next.Add(1)) - 1
				if ix >= len(jobs) {
					return nil
				}

				if err := s.sleep(groupCtx); err != nil {
					return err
				}

				data, err := s.fetcher.FetchPage(groupCtx, jobs[ix].source)
				if err != nil {
					s.status.addFailed(err)
					s.logger.Warn().
						Err(err).
						Str("url", jobs[ix].source).
						Msg("can't download image, skipped")
					continue
				}

				objectPath := path.Join(s.folder, jobs[ix].name)
				contentType := objstore.GuessContentType(jobs[ix].name, "image/jpeg")
				if err := s.store.Upload(groupCtx, objectPath, data, contentType); err != nil {
					s.status.addFailed(err)
					s.logger.Warn().
						Err(err).
						Str("object", objectPath).
						Msg("can't upload image, skipped")
					continue
				}

				s.status.addUploaded()
			}
		})
	}

	return group.Wait()
}

// rewrite repoints stored image URLs at the mirror, in keyset batches.
func (s *Syncer) rewrite(ctx context.Context) error {
	afterID := 0

	for {
		images, err := s.storage.ImagesByURLSubstring(ctx, s.sourceDomain, afterID, rewriteBatchSize)
		if err != nil {
			return fmt.Errorf("can't list images to rewrite: %w", err)
		}
		if len(images) == 0 {
			return nil
		}

		rewritten := 0
		for _, image := range images {
			name := CanonicalName(image.URL)
			if name == "" {
				continue
			}

			mirrored := s.store.PublicURL(path.Join(s.folder, name))
			if err := s.storage.UpdateImageURL(ctx, image.ID, mirrored); err != nil {
				return fmt.Errorf("can't rewrite image %d: %w", image.ID, err)
			}
			rewritten++
		}

		s.status.addRewritten(rewritten)
		afterID = images[len(images)-1].ID
	}
}

func (s *Syncer) fromSource(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return parsed.Host == s.sourceDomain
}

// CanonicalName derives the stable object name of a source image URL:
// the file name with the source's per-file numeric directory stripped.
// Returns "" for URLs that don't look like files.
func CanonicalName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if m := uploadDirPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1]
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return ""
	}

	return name
}

func (s *Syncer) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}
