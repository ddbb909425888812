package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

const audioRootDir = "audio"

// ErrUnknownWord is returned for a word id that is not in the catalog.
var ErrUnknownWord = errors.New("unknown word")

// WordFileName is the audio file of the word itself.
func WordFileName(id uuid.UUID) string {
	return id.String() + ".mp3"
}

// ExampleFileName is the audio file of the example at the zero-based index.
func ExampleFileName(id uuid.UUID, index int) string {
	return fmt.Sprintf("%s_ex%d.mp3", id, index+1)
}

// FormFileName is the audio file of the word form at the zero-based index.
func FormFileName(id uuid.UUID, index int) string {
	return fmt.Sprintf("%s_form%d.mp3", id, index+1)
}

// Service resolves, downloads and plays word audio.
// Play and Prefetch methods return immediately; failures are logged and dropped.
type Service struct {
	catalog *vocabulary.Catalog
	cache   *FileCache
	fetcher RemoteFetcher
	player  Player
	logger  *slog.Logger

	group  singleflight.Group
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	stopPlayback context.CancelFunc
}

// NewService creates a Service. A nil player downloads without playing.
func NewService(catalog *vocabulary.Catalog, cache *FileCache, fetcher RemoteFetcher, player Player, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		catalog: catalog,
		cache:   cache,
		fetcher: fetcher,
		player:  player,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RelativePath returns the path of an audio file of a word, shared by the cache and the asset host.
// Versioned entries with a voice live under audio/<category>/<id>/<version>/<voice>.
func (s *Service) RelativePath(id uuid.UUID, fileName string) (string, error) {
	entry, ok := s.catalog.WordByID(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownWord, id)
	}
	categoryID, ok := s.catalog.CategoryIDByWordID(id)
	if !ok {
		return "", fmt.Errorf("%w: %s has no category", ErrUnknownWord, id)
	}

	parts := []string{audioRootDir, categoryID.String()}
	if voiceID, ok := entry.VoiceID(); ok && entry.Version > 0 {
		parts = append(parts, id.String(), strconv.Itoa(entry.Version), voiceID.String())
	}
	parts = append(parts, fileName)
	return path.Join(parts...), nil
}

// Fetch returns the local path of an audio file, downloading it on a cache miss.
// Concurrent fetches of the same file share one download.
func (s *Service) Fetch(ctx context.Context, id uuid.UUID, fileName string) (string, error) {
	relativePath, err := s.RelativePath(id, fileName)
	if err != nil {
		return "", err
	}

	result, err, shared := s.group.Do(relativePath, func() (interface{}, error) {
		return s.cache.Fetch(relativePath, func() ([]byte, error) {
			return s.fetcher.Fetch(ctx, relativePath)
		})
	})
	if err != nil {
		return "", fmt.Errorf("cache.Fetch(%s) > %w", relativePath, err)
	}
	s.logger.Debug("audio ready", "path", relativePath, "shared", shared)
	return result.(string), nil
}

func (s *Service) Play(id uuid.UUID) {
	s.play(id, WordFileName(id))
}

func (s *Service) PlayExample(id uuid.UUID, index int) {
	s.play(id, ExampleFileName(id, index))
}

func (s *Service) PlayWordForm(id uuid.UUID, index int) {
	s.play(id, FormFileName(id, index))
}

func (s *Service) Prefetch(id uuid.UUID) {
	s.prefetch(id, WordFileName(id))
}

// Stop interrupts the current playback.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopPlayback != nil {
		s.stopPlayback()
		s.stopPlayback = nil
	}
}

// Close cancels pending downloads and playback and waits for them to finish.
func (s *Service) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

// Wait blocks until every pending download and playback has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) play(id uuid.UUID, fileName string) {
	s.mu.Lock()
	if s.stopPlayback != nil {
		s.stopPlayback()
	}
	playCtx, stop := context.WithCancel(s.ctx)
	s.stopPlayback = stop
	s.mu.Unlock()

	s.goLogged("play", fileName, func() error {
		localPath, err := s.Fetch(s.ctx, id, fileName)
		if err != nil {
			return err
		}
		if s.player == nil || playCtx.Err() != nil {
			return nil
		}
		return s.player.Play(playCtx, localPath)
	})
}

func (s *Service) prefetch(id uuid.UUID, fileName string) {
	s.goLogged("prefetch", fileName, func() error {
		_, err := s.Fetch(s.ctx, id, fileName)
		return err
	})
}

func (s *Service) goLogged(action, fileName string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Warn("audio "+action+" failed", "file", fileName, "error", err)
		}
	}()
}

// PrefetchExamples downloads the audio of up to limit examples of a word in the background.
// A negative limit downloads all of them.
func (s *Service) PrefetchExamples(id uuid.UUID, limit int) {
	s.goLogged("prefetch", ExampleFileName(id, 0), func() error {
		return s.fetchExamples(s.ctx, id, limit)
	})
}

func (s *Service) fetchExamples(ctx context.Context, id uuid.UUID, limit int) error {
	entry, ok := s.catalog.WordByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWord, id)
	}
	count := len(entry.Examples)
	if limit >= 0 && limit < count {
		count = limit
	}

	// A missing example does not cancel the others
	var g errgroup.Group
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := s.Fetch(ctx, id, ExampleFileName(id, i))
			return err
		})
	}
	return g.Wait()
}

// PrefetchResult counts the files of a bulk download. Ready files are in the cache.
type PrefetchResult struct {
	Ready   int
	Missing int
}

// PrefetchCategory downloads every word, example and form audio of a category
// with at most concurrency downloads in flight. Files missing on the host are counted, not failed.
func (s *Service) PrefetchCategory(ctx context.Context, categoryID uuid.UUID, concurrency int) (PrefetchResult, error) {
	category, ok := s.catalog.Category(categoryID)
	if !ok {
		return PrefetchResult{}, fmt.Errorf("unknown category: %s", categoryID)
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	var result PrefetchResult
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, entry := range category.Entries {
		for _, fileName := range entryFileNames(entry) {
			g.Go(func() error {
				_, err := s.Fetch(gctx, entry.ID, fileName)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					result.Ready++
				case IsNotFound(err):
					result.Missing++
				default:
					return err
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func entryFileNames(entry vocabulary.WordEntry) []string {
	names := []string{WordFileName(entry.ID)}
	for i := range entry.Examples {
		names = append(names, ExampleFileName(entry.ID, i))
	}
	for i := range entry.Forms {
		names = append(names, FormFileName(entry.ID, i))
	}
	return names
}
