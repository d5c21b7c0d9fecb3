// Package pagination normalizes page requests and shapes paged responses.
package pagination

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Request is a zero-based page request.
type Request struct {
	Page int
	Size int
}

// Normalize clamps page to >= 0 and size to [1, MaxSize].
func Normalize(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size}
}

// Offset returns the number of rows to skip.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Window returns the [start, end) slice bounds for a collection of total items.
func (r Request) Window(total int) (int, int) {
	start := r.Offset()
	if start > total {
		start = total
	}
	end := start + r.Size
	if end > total {
		end = total
	}
	return start, end
}

// Page is a slice of results plus the totals clients need to render pagers.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// New builds a page for the given request.
func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// Map converts the content of a page while keeping its totals.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[U]{
		Content:          out,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
