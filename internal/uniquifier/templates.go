package uniquifier

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/stroymet/catalog-ingest/internal/platform/models"
)

// MaxMetaDescription is the meta description length budget in runes.
const MaxMetaDescription = 160

// Product families keyed by the slug of the product's root category.
// Families give generated texts domain wording; anything unknown falls back
// to the generic set.
const (
	familyFasteners = "krepezh"
	familyTools     = "instrument"
	familyGeneric   = ""
)

var metaTitleTemplates = []string{
	"%s купить в интернет-магазине СтройМет",
	"%s — цена, наличие, быстрая доставка",
	"%s купить недорого со склада | СтройМет",
	"%s по оптовой и розничной цене",
	"%s — купить с доставкой по России",
	"%s в наличии на складе | СтройМет",
	"%s — характеристики, цена, наличие",
	"%s купить оптом и в розницу | СтройМет",
}

var metaDescriptionTemplates = []string{
	"Купить %s по выгодной цене. %s. Доставка по всей России, самовывоз со склада.",
	"%s в наличии. %s. Отгрузка в день заказа, доставка транспортной компанией.",
	"Продажа: %s. %s. Оптовые цены, скидки от объёма, быстрая отгрузка.",
	"%s — поставка со склада. %s. Оформите заказ онлайн или по телефону.",
	"Закажите %s с доставкой. %s. Гарантия качества, сертификаты на продукцию.",
	"%s по цене производителя. %s. Работаем с юридическими и физическими лицами.",
	"В каталоге: %s. %s. Полный пакет документов, оплата по счёту.",
	"%s со склада в Москве. %s. Отправка по РФ транспортными компаниями.",
}

var metaDescriptionShortTemplates = []string{
	"Купить %s по выгодной цене с доставкой по всей России.",
	"%s в наличии на складе. Отгрузка в день заказа.",
	"Продажа: %s. Оптовые цены, быстрая отгрузка.",
	"%s — поставка со склада, заказ онлайн или по телефону.",
	"Закажите %s с доставкой. Гарантия качества.",
	"%s по цене производителя, скидки от объёма.",
	"В каталоге: %s. Полный пакет документов.",
	"%s со склада, отправка по РФ транспортными компаниями.",
}

var introTemplates = map[string][]string{
	familyFasteners: {
		"%s — надёжный крепёжный элемент для ответственных соединений.",
		"%s применяется при сборке металлоконструкций и монтажных работах.",
		"%s — крепёж промышленного качества, соответствует требованиям ГОСТ и DIN.",
	},
	familyTools: {
		"%s — инструмент для профессионального и бытового применения.",
		"%s подходит для ежедневной работы на стройплощадке и в мастерской.",
		"%s — надёжный помощник при строительных и ремонтных работах.",
	},
	familyGeneric: {
		"%s — качественная продукция для строительства и производства.",
		"%s поставляется со склада и применяется в строительстве и промышленности.",
		"%s — проверенное решение для строительных и монтажных задач.",
	},
}

var applicationTemplates = map[string][]string{
	familyFasteners: {
		"Используется в машиностроении, строительстве и при монтаже несущих конструкций.",
		"Подходит для разъёмных соединений деталей с высокой нагрузкой.",
		"Применяется при сборке каркасов, ферм и других металлоконструкций.",
	},
	familyTools: {
		"Используется в строительстве, отделочных работах и при обслуживании оборудования.",
		"Подходит как для профессиональных бригад, так и для домашних мастеров.",
		"Применяется на стройплощадках, в цехах и частных мастерских.",
	},
	familyGeneric: {
		"Используется в строительстве, промышленности и частном хозяйстве.",
		"Подходит для широкого круга строительных и производственных задач.",
		"Применяется при возведении, ремонте и обслуживании объектов.",
	},
}

const deliveryBlock = "<p>Доставка по Москве и всей России транспортными компаниями. " +
	"Самовывоз со склада в день заказа. Оптовым покупателям — индивидуальные условия.</p>"

// variantIndex deterministically picks a template variant for a product:
// the same product and purpose always hash to the same variant, different
// purposes hash independently.
func variantIndex(productID int, purpose string, variants int) int {
	return int(xxhash.Sum64String(strconv.Itoa(productID)+purpose) % uint64(variants))
}

// MetaTitle generates a deterministic meta title for a product.
func MetaTitle(product models.Product) string {
	template := metaTitleTemplates[variantIndex(product.ID, "title", len(metaTitleTemplates))]
	return fmt.Sprintf(template, product.Name)
}

// MetaDescription generates a deterministic meta description within the
// MaxMetaDescription budget. A variant with the attribute summary is
// preferred; when it doesn't fit, the short variant is used, and as a last
// resort the text is cut at the budget with an ellipsis.
func MetaDescription(product models.Product, values []models.ProductValue) string {
	if summary := attributeSummary(values, 3); summary != "" {
		template := metaDescriptionTemplates[variantIndex(product.ID, "description", len(metaDescriptionTemplates))]
		text := fmt.Sprintf(template, product.Name, summary)
		if len([]rune(text)) <= MaxMetaDescription {
			return text
		}
	}

	template := metaDescriptionShortTemplates[variantIndex(product.ID, "description", len(metaDescriptionShortTemplates))]
	text := fmt.Sprintf(template, product.Name)
	if runes := []rune(text); len(runes) > MaxMetaDescription {
		text = string(runes[:MaxMetaDescription-1]) + "…"
	}

	return text
}

// shortDescriptionSuffix closes every generated short description.
const shortDescriptionSuffix = "В наличии на складе, отгрузка в день заказа."

// ShortDescription is the attribute summary followed by a fixed availability
// sentence. Products without values fall back to the name.
func ShortDescription(product models.Product, values []models.ProductValue) string {
	summary := attributeSummary(values, 2)
	if summary == "" {
		summary = product.Name
	}

	return summary + ". " + shortDescriptionSuffix
}

// Description generates the long HTML description: a family intro, the
// scraped description if any, a specification table and the delivery block.
// All scraped text is escaped before it lands in markup.
func Description(product models.Product, values []models.ProductValue, family string) string {
	intros := introTemplates[familyGeneric]
	if templates, ok := introTemplates[family]; ok {
		intros = templates
	}
	applications := applicationTemplates[familyGeneric]
	if templates, ok := applicationTemplates[family]; ok {
		applications = templates
	}

	var b strings.Builder

	intro := fmt.Sprintf(intros[variantIndex(product.ID, "intro", len(intros))], product.Name)
	b.WriteString("<p>" + html.EscapeString(intro) + "</p>")

	if product.Description != "" {
		b.WriteString("<p>" + html.EscapeString(product.Description) + "</p>")
	}

	if len(values) > 0 {
		b.WriteString(`<table class="product-specs">`)
		for _, value := range values {
			b.WriteString("<tr><td>")
			b.WriteString(html.EscapeString(value.Name))
			b.WriteString("</td><td>")
			b.WriteString(html.EscapeString(formatValue(value)))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</table>")
	}

	application := applications[variantIndex(product.ID, "application", len(applications))]
	b.WriteString("<p>" + html.EscapeString(application) + "</p>")
	b.WriteString(deliveryBlock)

	return b.String()
}

// attributeSummary renders up to limit values as "Имя: значение" joined
// with commas.
func attributeSummary(values []models.ProductValue, limit int) string {
	parts := make([]string, 0, limit)
	for _, value := range values {
		if len(parts) == limit {
			break
		}
		parts = append(parts, value.Name+": "+formatValue(value))
	}

	return strings.Join(parts, ", ")
}

// formatValue renders a value with its unit, trimming trailing zeros from
// numbers ("10", not "10.000000").
func formatValue(value models.ProductValue) string {
	var rendered string
	switch {
	case value.ValueNumber != nil:
		rendered = strconv.FormatFloat(*value.ValueNumber, 'f', -1, 64)
	case value.ValueText != nil:
		rendered = *value.ValueText
	}

	if value.Unit != nil && rendered != "" {
		rendered += " " + *value.Unit
	}

	return rendered
}
