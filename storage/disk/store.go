// Package disk implements PageStore, the persistent random-access array
// of fixed-size pages that backs the buffer pool. It owns the single
// file handle and the current page count; no other package touches the
// file directly.
package disk

import (
	"io"
	"os"
	"sync"

	"github.com/lkim94gatech/buzzpage/page"
	"github.com/lkim94gatech/buzzpage/util"
)

// PageStore is a flat file of exactly page.MaxPages*page.Size bytes.
// Page i occupies bytes [i*page.Size, (i+1)*page.Size). Its contents are
// opaque to PageStore - interpretation is the caller's (btree's).
type PageStore struct {
	file     *os.File
	numPages int

	// extendMu guards ExtendTo. It is the one piece of internal
	// synchronization this engine carries, per the single-threaded
	// cooperative model: a defensive remnant, not a concurrency story.
	extendMu sync.Mutex
}

// Open opens the backing file at path, creating it if absent. If
// truncate is true the file is truncated to empty before being grown
// back to page.MaxPages pages; otherwise existing content is preserved
// and the store only zero-appends pages missing from the tail.
func Open(path string, truncate bool) (*PageStore, error) {
	flags := os.O_CREATE | os.O_RDWR
	if truncate {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, util.NewIOError("open page file", err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, util.NewIOError("stat page file", err)
	}

	store := &PageStore{
		file:     f,
		numPages: int(info.Size() / page.Size),
	}

	if err := store.ExtendTo(page.MaxPages - 1); err != nil {
		return nil, err
	}

	return store, nil
}

// Load reads page id into a freshly allocated page buffer.
func (s *PageStore) Load(id page.ID) (*page.Page, error) {
	var buf page.Page
	offset := int64(id) * page.Size

	n, err := s.file.ReadAt(buf.Bytes(), offset)
	if err != nil && err != io.EOF {
		return nil, util.NewIOError("read page", err)
	}
	if n < page.Size {
		return nil, util.NewIOError("short read on page", io.ErrUnexpectedEOF)
	}

	return &buf, nil
}

// Flush writes the page buffer at byte offset id*page.Size and fsyncs
// the underlying file. This is the only write-back path; it guarantees
// the write survives process exit, not a crash.
func (s *PageStore) Flush(id page.ID, p *page.Page) error {
	offset := int64(id) * page.Size

	if _, err := s.file.WriteAt(p.Bytes(), offset); err != nil {
		return util.NewIOError("write page", err)
	}
	if err := s.file.Sync(); err != nil {
		return util.NewIOError("sync page file", err)
	}

	return nil
}

// Extend appends one zero page and returns its id.
func (s *PageStore) Extend() (page.ID, error) {
	s.extendMu.Lock()
	defer s.extendMu.Unlock()

	var zero page.Page
	offset := int64(s.numPages) * page.Size

	if _, err := s.file.WriteAt(zero.Bytes(), offset); err != nil {
		return 0, util.NewIOError("extend page file", err)
	}

	id := page.ID(s.numPages)
	s.numPages++
	return id, nil
}

// ExtendTo ensures at least id+1 pages exist, zero-filling any gap.
// No-op if the file is already that long.
func (s *PageStore) ExtendTo(id page.ID) error {
	s.extendMu.Lock()
	defer s.extendMu.Unlock()

	want := int(id) + 1
	if want <= s.numPages {
		return nil
	}

	missing := want - s.numPages
	zeros := make([]byte, missing*page.Size)
	offset := int64(s.numPages) * page.Size

	if _, err := s.file.WriteAt(zeros, offset); err != nil {
		return util.NewIOError("extend page file to id", err)
	}

	s.numPages = want
	return nil
}

// NumPages reports how many pages currently exist in the file.
func (s *PageStore) NumPages() int {
	return s.numPages
}

// Close releases the underlying file handle.
func (s *PageStore) Close() error {
	return s.file.Close()
}
