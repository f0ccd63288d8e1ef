package modelstesting

import (
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
)

// FakeCategory returns models.Category with fake data.
func FakeCategory(ops ...func(c *models.Category)) models.Category {
	category := models.Category{
		ID:            rand.Intn(10000) + 1,
		Slug:          faker.Word(),
		Name:          faker.Word(),
		ImageURL:      faker.URL(),
		ProductsCount: rand.Intn(500),
		IsActive:      true,
	}

	for _, op := range ops {
		op(&category)
	}

	return category
}

// FakeProduct returns models.Product with fake data, one primary image and a
// random number of attribute values.
func FakeProduct(ops ...func(p *models.Product)) models.Product {
	product := models.Product{
		CategoryID:      rand.Intn(10000) + 1,
		Slug:            fmt.Sprintf("%s-%d", faker.Word(), rand.Intn(100000)),
		Name:            faker.Sentence(),
		SKU:             lo.ToPtr(faker.Word()),
		Description:     faker.Paragraph(),
		MetaTitle:       faker.Sentence(),
		MetaDescription: faker.Sentence(),
		IsActive:        true,
		InStock:         true,
		Images: []models.ProductImage{
			{URL: faker.URL(), SourceURL: faker.URL(), IsPrimary: true},
		},
		Attributes: fakeValues(),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeAttribute returns models.Attribute with fake data.
func FakeAttribute(ops ...func(a *models.Attribute)) models.Attribute {
	attribute := models.Attribute{
		ID:           rand.Intn(10000) + 1,
		Slug:         faker.Word(),
		Name:         faker.Word(),
		Type:         models.AttributeTypeText,
		IsFilterable: true,
	}

	for _, op := range ops {
		op(&attribute)
	}

	return attribute
}

// FakeCheckpoint returns models.Checkpoint with fake data.
func FakeCheckpoint(ops ...func(c *models.Checkpoint)) models.Checkpoint {
	checkpoint := models.Checkpoint{
		CategoryID:   rand.Intn(10000) + 1,
		CategorySlug: faker.Word(),
	}

	for _, op := range ops {
		op(&checkpoint)
	}

	return checkpoint
}

func fakeValues() []models.ProductValue {
	valuesLen := rand.Intn(5)
	values := make([]models.ProductValue, 0, valuesLen)
	for range valuesLen {
		values = append(values, models.ProductValue{
			Name:      faker.Word(),
			ValueText: lo.ToPtr(faker.Word()),
		})
	}

	return values
}
