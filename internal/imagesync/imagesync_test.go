package imagesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
)

const testSourceDomain = "www.stroymet-shop.ru"

func sourceImageURL(dir int, name string) string {
	return fmt.Sprintf("https://%s/upload/%d/%s", testSourceDomain, dir, name)
}

type fakeFetcher struct {
	mu     sync.Mutex
	images map[string][]byte
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.images[url]
	if !ok {
		return nil, fmt.Errorf("no image at %s", url)
	}
	return data, nil
}

type fakeStorage struct {
	images  []models.ProductImage
	updated map[int]string
}

func (s *fakeStorage) ProductImages(context.Context) ([]models.ProductImage, error) {
	return s.images, nil
}

func (s *fakeStorage) ImagesByURLSubstring(_ context.Context, needle string, afterID int, limit int) ([]models.ProductImage, error) {
	batch := make([]models.ProductImage, 0, limit)
	for _, image := range s.images {
		url := image.URL
		if newURL, ok := s.updated[image.ID]; ok {
			url = newURL
		}
		if image.ID > afterID && len(batch) < limit && strings.Contains(url, needle) {
			batch = append(batch, image)
		}
	}
	return batch, nil
}

func (s *fakeStorage) UpdateImageURL(_ context.Context, imageID int, url string) error {
	if s.updated == nil {
		s.updated = make(map[int]string)
	}
	s.updated[imageID] = url
	return nil
}

type fakeObjectStore struct {
	mu       sync.Mutex
	existing []string
	uploads  map[string][]byte
	types    map[string]string
}

func (o *fakeObjectStore) List(context.Context, string) ([]string, error) {
	return o.existing, nil
}

func (o *fakeObjectStore) Upload(_ context.Context, objectPath string, data []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.uploads == nil {
		o.uploads = make(map[string][]byte)
		o.types = make(map[string]string)
	}
	o.uploads[objectPath] = data
	o.types[objectPath] = contentType
	return nil
}

func (o *fakeObjectStore) PublicURL(objectPath string) string {
	return "https://cdn.example.com/catalog/" + objectPath
}

func TestUnitCanonicalName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "numeric upload directory is stripped",
			url:  sourceImageURL(318, "bolt-m10.jpg"),
			want: "bolt-m10.jpg",
		},
		{
			name: "same file under another directory maps to the same name",
			url:  sourceImageURL(999, "bolt-m10.jpg"),
			want: "bolt-m10.jpg",
		},
		{
			name: "plain path keeps its base name",
			url:  "https://" + testSourceDomain + "/images/logo.png",
			want: "logo.png",
		},
		{
			name: "directory url yields nothing",
			url:  "https://" + testSourceDomain + "/upload/",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalName(tt.url))
		})
	}
}

func TestUnitSyncerRun(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		sourceImageURL(318, "bolt-m10.jpg"): []byte("jpeg-10"),
		sourceImageURL(319, "bolt-m12.jpg"): []byte("jpeg-12"),
	}}
	storage := &fakeStorage{images: []models.ProductImage{
		{ID: 1, URL: sourceImageURL(318, "bolt-m10.jpg"), SourceURL: sourceImageURL(318, "bolt-m10.jpg")},
		{ID: 2, URL: sourceImageURL(319, "bolt-m12.jpg"), SourceURL: sourceImageURL(319, "bolt-m12.jpg")},
		// Same file mirrored twice under different upload directories.
		{ID: 3, URL: sourceImageURL(555, "bolt-m10.jpg"), SourceURL: sourceImageURL(555, "bolt-m10.jpg")},
		{ID: 4, URL: "https://cdn.other.com/pic.jpg", SourceURL: "https://cdn.other.com/pic.jpg"},
	}}
	store := &fakeObjectStore{}
	status := NewStatus()
	logger := zerolog.Nop()

	syncer := NewSyncer(fetcher, storage, store, status, testSourceDomain, "products", 0, 2, &logger)

	err := syncer.Run(context.Background())

	require.NoError(t, err)

	require.Len(t, store.uploads, 2, "duplicate names should be uploaded once")
	assert.Equal(t, []byte("jpeg-10"), store.uploads["products/bolt-m10.jpg"])
	assert.Equal(t, "image/jpeg", store.types["products/bolt-m10.jpg"])

	assert.Equal(t, "https://cdn.example.com/catalog/products/bolt-m10.jpg", storage.updated[1])
	assert.Equal(t, "https://cdn.example.com/catalog/products/bolt-m12.jpg", storage.updated[2])
	assert.Equal(t, "https://cdn.example.com/catalog/products/bolt-m10.jpg", storage.updated[3],
		"duplicates should point at the shared object")
	assert.NotContains(t, storage.updated, 4, "foreign urls should be left alone")

	snapshot := status.Snapshot()
	assert.Equal(t, PhaseDone, snapshot.Phase)
	assert.Equal(t, 2, snapshot.Uploaded)
	assert.Equal(t, 3, snapshot.Rewritten)
	assert.Zero(t, snapshot.Failed)
	assert.InDelta(t, 100.0, snapshot.Percent, 0.01)
}

func TestUnitSyncerRunSkipsExistingObjects(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		sourceImageURL(319, "bolt-m12.jpg"): []byte("jpeg-12"),
	}}
	storage := &fakeStorage{images: []models.ProductImage{
		{ID: 1, SourceURL: sourceImageURL(318, "bolt-m10.jpg"), URL: sourceImageURL(318, "bolt-m10.jpg")},
		{ID: 2, SourceURL: sourceImageURL(319, "bolt-m12.jpg"), URL: sourceImageURL(319, "bolt-m12.jpg")},
	}}
	store := &fakeObjectStore{existing: []string{"bolt-m10.jpg"}}
	status := NewStatus()
	logger := zerolog.Nop()

	syncer := NewSyncer(fetcher, storage, store, status, testSourceDomain, "products", 0, 2, &logger)

	err := syncer.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, store.uploads, 1, "already mirrored image should not be downloaded again")
	assert.Contains(t, store.uploads, "products/bolt-m12.jpg")

	snapshot := status.Snapshot()
	assert.Equal(t, 1, snapshot.Skipped)
	assert.Equal(t, 1, snapshot.Uploaded)
}

func TestUnitSyncerRunCountsBrokenDownloads(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{}}
	storage := &fakeStorage{images: []models.ProductImage{
		{ID: 1, SourceURL: sourceImageURL(318, "bolt-m10.jpg"), URL: sourceImageURL(318, "bolt-m10.jpg")},
	}}
	store := &fakeObjectStore{}
	status := NewStatus()
	logger := zerolog.Nop()

	syncer := NewSyncer(fetcher, storage, store, status, testSourceDomain, "products", 0, 2, &logger)

	err := syncer.Run(context.Background())

	require.NoError(t, err, "a broken download should not fail the sync")

	snapshot := status.Snapshot()
	assert.Equal(t, PhaseDone, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Failed)
	assert.NotEmpty(t, snapshot.LastError)
}

func TestUnitStatusHandler(t *testing.T) {
	status := NewStatus()
	status.setPhase(PhaseDownloading)
	status.setTotal(10, 3)
	status.addUploaded()

	server := httptest.NewServer(status.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshot Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	assert.Equal(t, PhaseDownloading, snapshot.Phase)
	assert.Equal(t, 10, snapshot.Total)
	assert.Equal(t, 3, snapshot.Skipped)
	assert.Equal(t, 1, snapshot.Uploaded)
	assert.InDelta(t, 10.0, snapshot.Percent, 0.01)
	require.NotNil(t, snapshot.StartedAt)
	require.NotNil(t, snapshot.UpdatedAt)
	assert.False(t, snapshot.UpdatedAt.Before(*snapshot.StartedAt))
}
