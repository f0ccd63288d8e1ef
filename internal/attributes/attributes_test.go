package attributes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
)

const testBaseURL = "https://shop.example.com"

const filterPanel = `
	<div class="catalog-filter">
		<div class="filter-block">
			<div class="filter-block-title">Диаметр, мм</div>
			<label><input type="checkbox" value="diametr|10"/>10</label>
			<label><input type="checkbox" value="diametr|12"/>12</label>
		</div>
		<div class="filter-block">
			<div class="filter-block-title">Покрытие</div>
			<label><input type="checkbox" value="pokrytie|цинк"/>цинк</label>
		</div>
	</div>`

type fakeFetcher struct {
	pages map[string]string
	calls int
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) ([]byte, error) {
	f.calls++
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return []byte(html), nil
}

type fakeStorage struct {
	checkpoints []models.Checkpoint
	attributes  map[string]*models.Attribute
	created     int
	links       []models.CategoryAttribute
	parsed      []int
	errored     map[int]string
}

func newFakeStorage(checkpoints ...models.Checkpoint) *fakeStorage {
	return &fakeStorage{
		checkpoints: checkpoints,
		attributes:  make(map[string]*models.Attribute),
		errored:     make(map[int]string),
	}
}

func (s *fakeStorage) PendingAttributeCheckpoints(context.Context) ([]models.Checkpoint, error) {
	return s.checkpoints, nil
}

func (s *fakeStorage) GetOrCreateAttribute(_ context.Context, attribute models.Attribute) (*models.Attribute, error) {
	if existing, ok := s.attributes[attribute.Slug]; ok {
		return existing, nil
	}
	s.created++
	attribute.ID = s.created
	s.attributes[attribute.Slug] = &attribute
	return &attribute, nil
}

func (s *fakeStorage) EnsureCategoryAttribute(_ context.Context, link models.CategoryAttribute) error {
	s.links = append(s.links, link)
	return nil
}

func (s *fakeStorage) MarkAttributesParsed(_ context.Context, categoryID int) error {
	s.parsed = append(s.parsed, categoryID)
	return nil
}

func (s *fakeStorage) RecordError(_ context.Context, categoryID int, message string) error {
	s.errored[categoryID] = message
	return nil
}

func TestUnitPipelineRun(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBaseURL + "/catalog/krepezh/bolty/": filterPanel,
	}}
	storage := newFakeStorage(models.Checkpoint{CategoryID: 7, CategorySlug: "krepezh/bolty"})
	logger := zerolog.Nop()

	pipeline := NewPipeline(fetcher, storage, testBaseURL, 0, &logger)

	err := pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{7}, storage.parsed, "checkpoint should be marked parsed")
	assert.Empty(t, storage.errored)

	require.Contains(t, storage.attributes, "diametr")
	require.Contains(t, storage.attributes, "pokrytie")
	assert.Equal(t, models.AttributeTypeNumber, storage.attributes["diametr"].Type, "numeric options should make a numeric attribute")
	assert.Equal(t, "Диаметр", storage.attributes["diametr"].Name)
	require.NotNil(t, storage.attributes["diametr"].Unit)
	assert.Equal(t, "мм", *storage.attributes["diametr"].Unit)
	assert.Equal(t, models.AttributeTypeText, storage.attributes["pokrytie"].Type)

	require.Len(t, storage.links, 2)
	assert.Equal(t, 0, storage.links[0].SortOrder, "links should keep panel order")
	assert.Equal(t, 1, storage.links[1].SortOrder)
	assert.Equal(t, 7, storage.links[0].CategoryID)
}

func TestUnitPipelineRunSharedDefinitions(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBaseURL + "/catalog/krepezh/bolty/": filterPanel,
		testBaseURL + "/catalog/krepezh/gayki/": filterPanel,
	}}
	storage := newFakeStorage(
		models.Checkpoint{CategoryID: 7, CategorySlug: "krepezh/bolty"},
		models.Checkpoint{CategoryID: 8, CategorySlug: "krepezh/gayki"},
	)
	logger := zerolog.Nop()

	pipeline := NewPipeline(fetcher, storage, testBaseURL, 0, &logger)

	err := pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, storage.created, "shared filters should create one definition each")
	assert.Len(t, storage.links, 4, "both categories should link both attributes")
	assert.Equal(t, []int{7, 8}, storage.parsed)
}

func TestUnitPipelineRunRecordsCategoryError(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBaseURL + "/catalog/krepezh/gayki/": filterPanel,
	}}
	storage := newFakeStorage(
		models.Checkpoint{CategoryID: 7, CategorySlug: "krepezh/bolty"},
		models.Checkpoint{CategoryID: 8, CategorySlug: "krepezh/gayki"},
	)
	logger := zerolog.Nop()

	pipeline := NewPipeline(fetcher, storage, testBaseURL, 0, &logger)

	err := pipeline.Run(context.Background())

	require.NoError(t, err, "one broken category should not fail the run")
	assert.Contains(t, storage.errored, 7, "failure should land on the checkpoint")
	assert.Equal(t, []int{8}, storage.parsed, "remaining categories should still be processed")
}

func TestUnitPipelineRunNoFilters(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBaseURL + "/catalog/krepezh/bolty/": "<html><body>без фильтров</body></html>",
	}}
	storage := newFakeStorage(models.Checkpoint{CategoryID: 7, CategorySlug: "krepezh/bolty"})
	logger := zerolog.Nop()

	pipeline := NewPipeline(fetcher, storage, testBaseURL, 0, &logger)

	err := pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{7}, storage.parsed, "a category without filters is still done")
	assert.Empty(t, storage.links)
}

func TestUnitPipelineRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	storage := newFakeStorage(models.Checkpoint{CategoryID: 7, CategorySlug: "krepezh/bolty"})
	logger := zerolog.Nop()

	pipeline := NewPipeline(&fakeFetcher{}, storage, testBaseURL, 0, &logger)

	err := pipeline.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled), "cancellation should stop the run")
	assert.Empty(t, storage.parsed)
}
