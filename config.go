package buzzpage

import "github.com/lkim94gatech/buzzpage/page"

// Config collects the boot parameters: a single file path, a truncate
// flag, and the resident capacity. There is no config-file format here
// - this is a plain struct the caller fills in directly.
type Config struct {
	// Path is the backing page file. There is no well-known default -
	// every caller names its own file.
	Path string

	// Truncate selects open semantics: true starts from an empty file,
	// false reopens an existing one.
	Truncate bool

	// Capacity is the buffer pool's resident-page limit. Zero means
	// page.MaxResident.
	Capacity int
}

func (c Config) capacity() int {
	if c.Capacity > 0 {
		return c.Capacity
	}
	return page.MaxResident
}
