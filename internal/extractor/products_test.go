package extractor_test

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stroymet/catalog-ingest/internal/extractor"
)

func TestUnitProductCards(t *testing.T) {
	html := []byte(`
		<div class="catalog-list">
			<div class="product-item">
				<a href="/catalog/bolty/bolt-din933-m10/">
					<img src="/upload/123/bolt.jpg"/>
					<span class="product-item-title">Болт DIN 933 М10</span>
				</a>
			</div>
			<div class="product-item">
				<a href="/catalog/bolty/bolt-din931-m12/">Болт DIN 931 М12</a>
			</div>
			<div class="product-item"><span>нет ссылки</span></div>
		</div>`)

	cards := extractor.ProductCards(html, baseURL)

	require.Len(t, cards, 2, "items without link should be skipped")
	assert.Equal(t, "Болт DIN 933 М10", cards[0].Name)
	assert.Equal(t, baseURL+"/catalog/bolty/bolt-din933-m10/", cards[0].URL, "should absolutize product url")
	assert.Equal(t, baseURL+"/upload/123/bolt.jpg", cards[0].ThumbnailURL, "should absolutize thumbnail")
	assert.Equal(t, "Болт DIN 931 М12", cards[1].Name, "name should fall back to link text")
	assert.Empty(t, cards[1].ThumbnailURL)
}

func TestUnitProductDetail(t *testing.T) {
	html := []byte(`<html><head>
			<title>Болт DIN 933 М10 — Стройметизы</title>
			<meta name="description" content="Болт оцинкованный с шестигранной головкой."/>
		</head><body>
			<h1>Болт DIN 933 М10</h1>
			<div class="product-article">Артикул: BD933-10</div>
			<div class="product-detail"><img src="/upload/77/bolt-big.jpg"/></div>
			<div class="product-description">Крепёжное изделие для металлоконструкций.</div>
			<table class="product-props">
				<tr><td>Диаметр, мм</td><td>10</td></tr>
				<tr><td>Длина, мм</td><td>40</td></tr>
				<tr><td>Покрытие</td><td>цинк</td></tr>
				<tr><td>Пустая</td><td></td></tr>
			</table>
		</body></html>`)

	product := extractor.ProductDetail(html, baseURL+"/catalog/bolty/bolt-din933-m10/", baseURL)

	require.NotNil(t, product, "valid page should yield a product")
	assert.Equal(t, "Болт DIN 933 М10", product.Name)
	assert.Equal(t, "bolt-din933-m10", product.Slug, "slug should come from the url's last segment")
	assert.Equal(t, lo.ToPtr("BD933-10"), product.SKU, "should extract labeled sku")
	assert.Equal(t, baseURL+"/upload/77/bolt-big.jpg", product.ImageURL)
	assert.Equal(t, "Крепёжное изделие для металлоконструкций.", product.Description)
	assert.Equal(t, "Болт оцинкованный с шестигранной головкой.", product.MetaDescription)

	require.Len(t, product.Attributes, 3, "rows without value should be skipped")
	assert.Equal(t, "Диаметр", product.Attributes[0].Name)
	assert.Equal(t, lo.ToPtr("мм"), product.Attributes[0].Unit)
	assert.Equal(t, "10", product.Attributes[0].Value)
	assert.Equal(t, "Покрытие", product.Attributes[2].Name)
	assert.Nil(t, product.Attributes[2].Unit)
}

func TestUnitProductDetailTitleFallback(t *testing.T) {
	html := []byte(`<html><head><title>Гайка М12 — Стройметизы</title></head><body><p>страница без h1</p></body></html>`)

	product := extractor.ProductDetail(html, baseURL+"/catalog/gayki/gayka-m12/", baseURL)

	require.NotNil(t, product)
	assert.Equal(t, "Гайка М12", product.Name, "name should fall back to cleaned title")
}

func TestUnitProductDetailRejected(t *testing.T) {
	tests := map[string]string{
		"not found title": `<html><head><title>Страница не найдена — 404</title></head><body><h1>Ошибка</h1></body></html>`,
		"no name at all":  `<html><head><title></title></head><body><p>пусто</p></body></html>`,
	}

	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, extractor.ProductDetail([]byte(html), baseURL+"/catalog/x/y/", baseURL), "page should be rejected")
		})
	}
}

func TestUnitPageCount(t *testing.T) {
	tests := map[string]struct {
		html string
		want int
	}{
		"found header": {
			html: `<div class="catalog-found">Найдено: 48 товаров</div>`,
			want: 2,
		},
		"header rounds up": {
			html: `<div class="catalog-found">Найдено: 49 товаров</div>`,
			want: 3,
		},
		"pagination links": {
			html: `<ul class="pagination">
				<li><a href="/catalog/bolty/?PAGEN_1=2">2</a></li>
				<li><a href="/catalog/bolty/?PAGEN_1=7">7</a></li>
			</ul>`,
			want: 7,
		},
		"pagination item count": {
			html: `<ul class="pagination"><li>1</li><li>2</li><li>3</li></ul>`,
			want: 3,
		},
		"maximum across methods": {
			html: `<div class="catalog-found">Найдено: 30 товаров</div>
				<ul class="pagination">
					<li><a href="?PAGEN_1=2">2</a></li>
					<li><a href="?PAGEN_1=5">5</a></li>
				</ul>`,
			want: 5,
		},
		"nothing found": {
			html: `<div>обычная страница</div>`,
			want: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.PageCount([]byte(tt.html)), "should determine page count")
		})
	}
}

func TestUnitPageCountLargeListing(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div class="catalog-found">Найдено: 240 товаров</div>`)

	assert.Equal(t, 10, extractor.PageCount([]byte(b.String())), "240 products at 24 per page should be 10 pages")
}
