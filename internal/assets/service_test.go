package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_assets "github.com/at-ishikawa/alg/internal/mocks/assets"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

var (
	testCategoryID = uuid.MustParse("33333333-0000-0000-0000-000000000001")
	plainWordID    = uuid.MustParse("33333333-0000-0000-0001-000000000001")
	voicedWordID   = uuid.MustParse("33333333-0000-0000-0001-000000000002")
	voiceID        = uuid.MustParse("44444444-0000-0000-0000-000000000001")
)

func newTestCatalog(t *testing.T) *vocabulary.Catalog {
	t.Helper()
	catalog, err := vocabulary.NewCatalog([]vocabulary.Category{
		{
			ID:           testCategoryID,
			Translations: map[string]string{"en": "Animals"},
			Entries: []vocabulary.WordEntry{
				{
					ID:           plainWordID,
					Word:         "der Hund",
					Version:      -1,
					Translations: map[string]string{"en": "dog"},
					Examples:     []vocabulary.Example{{Text: "Der Hund bellt."}, {Text: "Ich habe einen Hund."}},
					Forms:        []vocabulary.WordForm{{Form: "die Hunde"}},
				},
				{
					ID:           voicedWordID,
					Word:         "die Katze",
					Version:      2,
					VoiceEntries: []uuid.UUID{voiceID},
					Translations: map[string]string{"en": "cat"},
				},
			},
		},
	})
	require.NoError(t, err)
	return catalog
}

type recordingPlayer struct {
	mu    sync.Mutex
	paths []string
}

func (p *recordingPlayer) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return nil
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, plainWordID.String()+".mp3", WordFileName(plainWordID))
	assert.Equal(t, plainWordID.String()+"_ex1.mp3", ExampleFileName(plainWordID, 0))
	assert.Equal(t, plainWordID.String()+"_form3.mp3", FormFileName(plainWordID, 2))
}

func TestService_RelativePath(t *testing.T) {
	service := NewService(newTestCatalog(t), NewFileCache(t.TempDir()), nil, nil, nil)

	tests := []struct {
		name     string
		id       uuid.UUID
		fileName string
		want     string
		wantErr  bool
	}{
		{
			name:     "unversioned word",
			id:       plainWordID,
			fileName: ExampleFileName(plainWordID, 1),
			want:     "audio/" + testCategoryID.String() + "/" + plainWordID.String() + "_ex2.mp3",
		},
		{
			name:     "versioned word with a voice",
			id:       voicedWordID,
			fileName: WordFileName(voicedWordID),
			want: "audio/" + testCategoryID.String() + "/" + voicedWordID.String() + "/2/" +
				voiceID.String() + "/" + voicedWordID.String() + ".mp3",
		},
		{
			name:     "unknown word",
			id:       uuid.New(),
			fileName: "x.mp3",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.RelativePath(tt.id, tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownWord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_FetchDeduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
	relativePath := "audio/" + testCategoryID.String() + "/" + plainWordID.String() + ".mp3"
	fetcher.EXPECT().Fetch(gomock.Any(), relativePath).Return([]byte("mp3"), nil).Times(1)

	cacheDir := t.TempDir()
	service := NewService(newTestCatalog(t), NewFileCache(cacheDir), fetcher, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := service.Fetch(context.Background(), plainWordID, WordFileName(plainWordID))
			assert.NoError(t, err)
			assert.Equal(t, filepath.Join(cacheDir, filepath.FromSlash(relativePath)), got)
		}()
	}
	wg.Wait()
}

func TestService_PlayAndPrefetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("mp3"), nil).Times(2)

	cacheDir := t.TempDir()
	player := &recordingPlayer{}
	service := NewService(newTestCatalog(t), NewFileCache(cacheDir), fetcher, player, nil)

	service.Prefetch(voicedWordID)
	service.Wait()
	service.PlayExample(plainWordID, 0)
	service.Wait()
	// Already cached, so no new download
	service.Play(voicedWordID)
	service.Wait()
	require.NoError(t, service.Close())

	require.Len(t, player.paths, 2)
	assert.Equal(t, plainWordID.String()+"_ex1.mp3", filepath.Base(player.paths[0]))
	assert.Equal(t, voicedWordID.String()+".mp3", filepath.Base(player.paths[1]))
}

func TestService_PlayFailureIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	cacheDir := t.TempDir()
	player := &recordingPlayer{}
	service := NewService(newTestCatalog(t), NewFileCache(cacheDir), fetcher, player, nil)

	service.Play(plainWordID)
	service.Wait()
	require.NoError(t, service.Close())
	assert.Empty(t, player.paths)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_PrefetchExamples(t *testing.T) {
	base := "audio/" + testCategoryID.String() + "/" + plainWordID.String()

	tests := []struct {
		name      string
		limit     int
		wantFiles []string
	}{
		{
			name:      "capped",
			limit:     1,
			wantFiles: []string{base + "_ex1.mp3"},
		},
		{
			name:      "all examples",
			limit:     -1,
			wantFiles: []string{base + "_ex1.mp3", base + "_ex2.mp3"},
		},
		{
			name:  "none",
			limit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
			for _, file := range tt.wantFiles {
				fetcher.EXPECT().Fetch(gomock.Any(), file).Return([]byte("example"), nil)
			}

			cacheDir := t.TempDir()
			service := NewService(newTestCatalog(t), NewFileCache(cacheDir), fetcher, nil, nil)
			service.PrefetchExamples(plainWordID, tt.limit)
			service.Wait()
			require.NoError(t, service.Close())

			for _, file := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(cacheDir, filepath.FromSlash(file)))
			}
		})
	}
}

// blockingPlayer plays until its context is cancelled.
type blockingPlayer struct {
	started chan string
	stopped chan error
}

func (p *blockingPlayer) Play(ctx context.Context, path string) error {
	p.started <- path
	<-ctx.Done()
	p.stopped <- ctx.Err()
	return ctx.Err()
}

func TestService_StopInterruptsPlayback(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), "audio/"+testCategoryID.String()+"/"+plainWordID.String()+"_form1.mp3").Return([]byte("form"), nil)

	player := &blockingPlayer{started: make(chan string, 1), stopped: make(chan error, 1)}
	service := NewService(newTestCatalog(t), NewFileCache(t.TempDir()), fetcher, player, nil)

	service.PlayWordForm(plainWordID, 0)
	assert.Equal(t, plainWordID.String()+"_form1.mp3", filepath.Base(<-player.started))

	service.Stop()
	assert.ErrorIs(t, <-player.stopped, context.Canceled)
	service.Wait()
	require.NoError(t, service.Close())

	// Stopping without playback is a no-op
	service.Stop()
}

func TestService_PrefetchCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_assets.NewMockRemoteFetcher(ctrl)
	plainBase := "audio/" + testCategoryID.String() + "/" + plainWordID.String()
	fetcher.EXPECT().Fetch(gomock.Any(), plainBase+".mp3").Return([]byte("w"), nil)
	fetcher.EXPECT().Fetch(gomock.Any(), plainBase+"_ex1.mp3").Return([]byte("e1"), nil)
	fetcher.EXPECT().Fetch(gomock.Any(), plainBase+"_ex2.mp3").Return(nil, &StatusError{StatusCode: 404, Path: plainBase + "_ex2.mp3"})
	fetcher.EXPECT().Fetch(gomock.Any(), plainBase+"_form1.mp3").Return([]byte("f1"), nil)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("voiced"), nil)

	service := NewService(newTestCatalog(t), NewFileCache(t.TempDir()), fetcher, nil, nil)
	got, err := service.PrefetchCategory(context.Background(), testCategoryID, 2)
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Ready: 4, Missing: 1}, got)

	_, err = service.PrefetchCategory(context.Background(), uuid.New(), 2)
	assert.Error(t, err)
}
