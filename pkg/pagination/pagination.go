package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs.
type Params struct {
	Page  int
	Limit int
}

// Bounds configures the default and maximum page size.
type Bounds struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultBounds returns the package defaults.
func DefaultBounds() Bounds {
	return Bounds{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}
}

func (b Bounds) normalized() Bounds {
	if b.DefaultLimit <= 0 {
		b.DefaultLimit = DefaultLimit
	}
	if b.MaxLimit <= 0 {
		b.MaxLimit = MaxLimit
	}
	if b.DefaultLimit > b.MaxLimit {
		b.DefaultLimit = b.MaxLimit
	}
	return b
}

// Normalize replaces non-positive values with defaults and caps the limit.
func (b Bounds) Normalize(p Params) Params {
	b = b.normalized()
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = b.DefaultLimit
	}
	if p.Limit > b.MaxLimit {
		p.Limit = b.MaxLimit
	}
	if last := maxPage(p.Limit); p.Page > last {
		p.Page = last
	}
	return p
}

// maxPage is the largest page whose offset still fits in an int.
func maxPage(limit int) int {
	return math.MaxInt / limit
}

// Parse reads raw page/limit strings. Non-numeric input falls back to defaults.
func (b Bounds) Parse(rawPage, rawLimit string) Params {
	return b.Normalize(Params{Page: atoiOrZero(rawPage), Limit: atoiOrZero(rawLimit)})
}

// NormalizeLimit enforces the package default and maximum limits.
func NormalizeLimit(limit int) int {
	return DefaultBounds().Normalize(Params{Page: DefaultPage, Limit: limit}).Limit
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (min(p.Page, maxPage(p.Limit)) - 1) * p.Limit
}

// TotalPages returns ceil(total/limit), zero when there are no rows.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Meta is the pagination block returned with list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta builds the response block for p and total.
func NewMeta(p Params, total int64) Meta {
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: TotalPages(total, p.Limit),
	}
}

func atoiOrZero(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
