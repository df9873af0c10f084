// Package catalog answers read-only queries over a fixed product set.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// PriceBand names one of the fixed price intervals used for filtering.
type PriceBand string

const (
	PriceBandAll      PriceBand = "all"
	PriceBandUnder50  PriceBand = "under50"
	PriceBand50To100  PriceBand = "50to100"
	PriceBand100To150 PriceBand = "100to150"
	PriceBandOver150  PriceBand = "over150"
)

// CategoryAll disables category filtering in a Query.
const CategoryAll = "all"

const DefaultSimilarLimit = 4

var ErrUnknownPriceBand = errors.New("unknown price band")

var (
	fifty           = decimal.NewFromInt(50)
	oneHundred      = decimal.NewFromInt(100)
	oneHundredFifty = decimal.NewFromInt(150)
)

type Engine struct {
	products []models.Product
	byID     map[int64]int
}

// New copies products; later changes to the caller's slice are not seen.
// When ids repeat, lookup by id returns the first occurrence.
func New(products []models.Product) *Engine {
	e := &Engine{
		products: make([]models.Product, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	copy(e.products, products)
	for i, p := range e.products {
		if _, exists := e.byID[p.ID]; !exists {
			e.byID[p.ID] = i
		}
	}
	return e
}

func (e *Engine) All() []models.Product {
	return filter(e.products, func(models.Product) bool { return true })
}

func (e *Engine) Len() int {
	return len(e.products)
}

func (e *Engine) GetByID(id int64) (models.Product, bool) {
	i, ok := e.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return e.products[i], true
}

// FilterByCategory matches the category exactly, case included.
func (e *Engine) FilterByCategory(category string) []models.Product {
	return filterByCategory(e.products, category)
}

func (e *Engine) FilterByFeatured() []models.Product {
	return filter(e.products, func(p models.Product) bool { return p.Featured })
}

// Search matches query case-insensitively as a substring of name,
// description or category. The query is not trimmed, so "" matches
// every product.
func (e *Engine) Search(query string) []models.Product {
	return search(e.products, query)
}

func (e *Engine) FilterByPriceBand(band PriceBand) ([]models.Product, error) {
	return filterByPriceBand(e.products, band)
}

// Categories returns each distinct category once, in catalog order.
func (e *Engine) Categories() []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range e.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// Similar lists up to limit other products sharing the category of id.
// A limit below 1 means DefaultSimilarLimit.
func (e *Engine) Similar(id int64, limit int) ([]models.Product, bool) {
	product, ok := e.GetByID(id)
	if !ok {
		return nil, false
	}
	if limit < 1 {
		limit = DefaultSimilarLimit
	}

	similar := []models.Product{}
	for _, p := range e.products {
		if len(similar) == limit {
			break
		}
		if p.Category == product.Category && p.ID != id {
			similar = append(similar, p)
		}
	}
	return similar, true
}

// Query combines the listing filters. Empty fields do not filter.
type Query struct {
	Search    string
	Category  string
	PriceBand PriceBand
}

// Query applies search, then category, then price band, each stage
// narrowing the result of the one before.
func (e *Engine) Query(q Query) ([]models.Product, error) {
	result := e.products
	if q.Search != "" {
		result = search(result, q.Search)
	}
	if q.Category != "" && q.Category != CategoryAll {
		result = filterByCategory(result, q.Category)
	}
	result, err := filterByPriceBand(result, q.PriceBand)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func filter(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterByCategory(products []models.Product, category string) []models.Product {
	return filter(products, func(p models.Product) bool { return p.Category == category })
}

func search(products []models.Product, query string) []models.Product {
	needle := strings.ToLower(query)
	return filter(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle)
	})
}

func filterByPriceBand(products []models.Product, band PriceBand) ([]models.Product, error) {
	keep, err := band.predicate()
	if err != nil {
		return nil, err
	}
	return filter(products, keep), nil
}

func (b PriceBand) predicate() (func(models.Product) bool, error) {
	switch b {
	case PriceBandAll, "":
		return func(models.Product) bool { return true }, nil
	case PriceBandUnder50:
		return func(p models.Product) bool { return p.Price.LessThan(fifty) }, nil
	case PriceBand50To100:
		return func(p models.Product) bool {
			return p.Price.GreaterThanOrEqual(fifty) && p.Price.LessThanOrEqual(oneHundred)
		}, nil
	case PriceBand100To150:
		return func(p models.Product) bool {
			return p.Price.GreaterThan(oneHundred) && p.Price.LessThanOrEqual(oneHundredFifty)
		}, nil
	case PriceBandOver150:
		return func(p models.Product) bool { return p.Price.GreaterThan(oneHundredFifty) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPriceBand, string(b))
	}
}

// ParsePriceBand validates a band name coming from outside, such as a URL.
func ParsePriceBand(s string) (PriceBand, error) {
	band := PriceBand(s)
	if _, err := band.predicate(); err != nil {
		return "", err
	}
	return band, nil
}
