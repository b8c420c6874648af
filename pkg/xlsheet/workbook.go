package xlsheet

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/codec"
)

// maxSheetName is the longest sheet name the container format accepts.
const maxSheetName = 31

// Workbook is an ordered collection of sheets backed by a codec. It owns the
// codec until Save or Close, which release it and invalidate the workbook.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	codec  codec.Codec
	source string
	opts   Options
	log    *slog.Logger

	built  bool
	filter string
	order  []*Sheet
	byName map[string]*Sheet

	streams []*RowStream
	saved   bool
}

// Load opens the container at path.
func Load(path string, opts Options) (*Workbook, error) {
	c, err := codec.OpenExcel(path, opts.excel())
	if err != nil {
		return nil, &OpenError{Source: path, Err: err}
	}
	return open(c, path, opts), nil
}

// LoadReader reads a container from r.
func LoadReader(r io.Reader, opts Options) (*Workbook, error) {
	c, err := codec.OpenExcelReader(r, opts.excel())
	if err != nil {
		return nil, &OpenError{Source: "reader", Err: err}
	}
	return open(c, "", opts), nil
}

// New returns a workbook over an empty container.
func New(opts Options) *Workbook {
	return open(codec.NewExcel(opts.excel()), "", opts)
}

// Open wraps an already opened codec. The workbook takes ownership of c.
func Open(c codec.Codec, opts Options) *Workbook {
	return open(c, "", opts)
}

func open(c codec.Codec, source string, opts Options) *Workbook {
	w := &Workbook{
		codec:  c,
		source: source,
		opts:   opts,
		log:    opts.logger(),
	}
	w.build(opts.SheetFilter)
	return w
}

// Source returns the path the workbook was loaded from, or "" when it was
// not loaded from a file.
func (w *Workbook) Source() string { return w.source }

func (w *Workbook) check() error {
	if w.saved {
		return ErrUseAfterSave
	}
	return nil
}

// Sheets returns the indexed sheets in container order. The index is built on
// the first call; when filter is not empty only the sheet of that name is
// indexed. Later calls return the same index whatever their filter, unless
// Options.RebuildOnFilterChange is set.
func (w *Workbook) Sheets(filter string) ([]*Sheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	if !w.built || (w.opts.RebuildOnFilterChange && filter != w.filter) {
		w.build(filter)
	}
	sheets := make([]*Sheet, len(w.order))
	copy(sheets, w.order)
	return sheets, nil
}

// SheetNames returns the names of the indexed sheets in order.
func (w *Workbook) SheetNames() ([]string, error) {
	sheets, err := w.Sheets(w.filter)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.name
	}
	return names, nil
}

func (w *Workbook) build(filter string) {
	prev := w.byName
	w.order = nil
	w.byName = make(map[string]*Sheet)
	for _, name := range w.codec.SheetNames() {
		if filter != "" && name != filter {
			continue
		}
		s, ok := prev[name]
		if !ok {
			s = newSheet(w, name)
		}
		w.order = append(w.order, s)
		w.byName[name] = s
	}
	w.built = true
	w.filter = filter
	w.log.Debug("sheet index built", "filter", filter, "sheets", len(w.order))
}

func (w *Workbook) ensureIndex() {
	if !w.built {
		w.build(w.opts.SheetFilter)
	}
}

// Sheet looks up an indexed sheet by name.
func (w *Workbook) Sheet(name string) (*Sheet, bool, error) {
	if err := w.check(); err != nil {
		return nil, false, err
	}
	w.ensureIndex()
	s, ok := w.byName[name]
	return s, ok, nil
}

// CreateSheet appends an empty sheet.
func (w *Workbook) CreateSheet(name string) (*Sheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	w.ensureIndex()
	if w.nameTaken(name, nil) {
		return nil, &DuplicateNameError{Name: name}
	}
	if err := w.codec.CreateSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	w.log.Debug("sheet created", "sheet", name)
	return w.add(name), nil
}

// CloneSheet appends a copy of the values of the sheet at container position
// index. The copy is named "<name> (n)" with the lowest free n from 2.
func (w *Workbook) CloneSheet(index int) (*Sheet, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	w.ensureIndex()
	names := w.codec.SheetNames()
	if err := checkIndex("sheet", index, len(names)); err != nil {
		return nil, err
	}
	src := names[index]
	if s, ok := w.byName[src]; ok && s.stream != nil {
		return nil, ErrStreaming
	}
	name := w.cloneName(src)
	if err := w.codec.CloneSheet(index, name); err != nil {
		return nil, fmt.Errorf("clone sheet %q: %w", src, err)
	}
	w.log.Debug("sheet cloned", "source", src, "sheet", name)
	return w.add(name), nil
}

// RemoveSheetAt deletes the sheet at container position index. A removed
// Sheet value refuses further operations with ErrSheetRemoved.
func (w *Workbook) RemoveSheetAt(index int) error {
	if err := w.check(); err != nil {
		return err
	}
	w.ensureIndex()
	names := w.codec.SheetNames()
	if err := checkIndex("sheet", index, len(names)); err != nil {
		return err
	}
	name := names[index]
	if err := w.codec.RemoveSheet(index); err != nil {
		return fmt.Errorf("remove sheet %q: %w", name, err)
	}
	if s, ok := w.byName[name]; ok {
		delete(w.byName, name)
		for i, o := range w.order {
			if o == s {
				w.order = append(w.order[:i], w.order[i+1:]...)
				break
			}
		}
		w.dropStream(s)
		s.removed = true
	}
	w.log.Debug("sheet removed", "sheet", name, "index", index)
	return nil
}

func (w *Workbook) add(name string) *Sheet {
	s := newSheet(w, name)
	w.order = append(w.order, s)
	w.byName[name] = s
	return s
}

// nameTaken reports whether name collides with a container sheet other than
// except. Sheet names compare case-insensitively, as in the container format.
func (w *Workbook) nameTaken(name string, except *Sheet) bool {
	for _, n := range w.codec.SheetNames() {
		if except != nil && n == except.name {
			continue
		}
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (w *Workbook) cloneName(src string) string {
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := src
		for utf8.RuneCountInString(base)+len(suffix) > maxSheetName {
			_, size := utf8.DecodeLastRuneInString(base)
			base = base[:len(base)-size]
		}
		if name := base + suffix; !w.nameTaken(name, nil) {
			return name
		}
	}
}

func (w *Workbook) position(name string) int {
	for i, n := range w.codec.SheetNames() {
		if n == name {
			return i
		}
	}
	return -1
}

func (w *Workbook) renameSheet(s *Sheet, name string) error {
	if name == s.name {
		return nil
	}
	if w.nameTaken(name, s) {
		return &DuplicateNameError{Name: name}
	}
	pos := w.position(s.name)
	if pos < 0 {
		return fmt.Errorf("rename sheet %q: %w", s.name, codec.ErrSheetNotExist)
	}
	if err := w.codec.RenameSheet(pos, name); err != nil {
		return fmt.Errorf("rename sheet %q: %w", s.name, err)
	}
	if w.byName[s.name] == s {
		delete(w.byName, s.name)
		w.byName[name] = s
	}
	w.log.Debug("sheet renamed", "from", s.name, "to", name)
	s.name = name
	return nil
}

func (w *Workbook) dropStream(s *Sheet) {
	for i, st := range w.streams {
		if st.sheet == s {
			w.streams = append(w.streams[:i], w.streams[i+1:]...)
			return
		}
	}
}

// Save flushes open row streams, writes the container to dst and releases the
// engine. The workbook is invalid afterwards, whether or not the write
// succeeded.
func (w *Workbook) Save(dst io.Writer) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.save(dst, "writer")
}

// SaveAs saves the workbook to the file at path, creating or truncating it.
// An empty path saves back to Source. Without a source it fails with
// ErrNoPath and the workbook stays usable.
func (w *Workbook) SaveAs(path string) (err error) {
	if err := w.check(); err != nil {
		return err
	}
	if path == "" {
		if w.source == "" {
			return ErrNoPath
		}
		path = w.source
	}
	f, err := os.Create(path)
	if err != nil {
		w.release(nil)
		return &WriteError{Dest: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Dest: path, Err: cerr}
		}
	}()
	return w.save(f, path)
}

// Close releases the engine without writing anything. It is a no-op after
// Save or an earlier Close.
func (w *Workbook) Close() error {
	var err error
	w.release(&err)
	return err
}

func (w *Workbook) save(dst io.Writer, name string) (err error) {
	defer w.release(&err)
	for _, st := range w.streams {
		if err := st.flush(); err != nil {
			return &WriteError{Dest: name, Err: fmt.Errorf("flush sheet %q: %w", st.sheet.name, err)}
		}
	}
	n, err := w.codec.WriteTo(dst)
	if err != nil {
		return &WriteError{Dest: name, Err: err}
	}
	w.log.Debug("workbook saved", "dest", name, "size", humanize.Bytes(uint64(n)))
	return nil
}

// release closes the codec exactly once. A close failure is reported through
// errp only when no earlier error is recorded there.
func (w *Workbook) release(errp *error) {
	if w.saved {
		return
	}
	w.saved = true
	w.streams = nil
	cerr := w.codec.Close()
	if cerr == nil {
		return
	}
	if errp != nil && *errp == nil {
		*errp = &WriteError{Dest: "engine", Err: cerr}
		return
	}
	w.log.Warn("release workbook engine", "error", cerr)
}
