package xhsnote

// Parser turns an HTML document into a partial record.
type Parser interface {
	// Parse extracts whatever note fields html carries. Fields that could
	// not be found are left empty; the parser never fabricates data.
	// Returns EINVALID for empty input.
	Parse(html string) (*Record, error)
}

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter transforms HTML content into readable text.
type Converter interface {
	Convert(html string) (string, error)
}
