package manifest

type recordKey struct {
	path  string
	isDir bool
}

// Manifest is an ordered collection of records in discovery order, indexed by
// (path, kind). It is not safe for concurrent use.
type Manifest struct {
	records []Record
	byKey   map[recordKey]int
	byPath  map[string]int
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{
		byKey:  map[recordKey]int{},
		byPath: map[string]int{},
	}
}

// FromRecords builds a manifest holding records in the given order.
func FromRecords(records []Record) *Manifest {
	m := New()
	for _, r := range records {
		m.Append(r)
	}
	return m
}

// Append adds r at the end of the manifest.
func (m *Manifest) Append(r Record) {
	m.records = append(m.records, r)
	k := recordKey{path: r.Path, isDir: r.IsDirectory}
	if _, ok := m.byKey[k]; !ok {
		m.byKey[k] = len(m.records) - 1
	}
	m.byPath[r.Path]++
}

// Lookup returns the first record matching path and kind. A nil manifest holds no
// records.
func (m *Manifest) Lookup(path string, isDir bool) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	i, ok := m.byKey[recordKey{path: path, isDir: isDir}]
	if !ok {
		return Record{}, false
	}
	return m.records[i], true
}

// IndexOf returns the position of the first record matching path and kind.
func (m *Manifest) IndexOf(path string, isDir bool) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.byKey[recordKey{path: path, isDir: isDir}]
	return i, ok
}

// ContainsPath reports whether any record, of either kind, has the given path.
func (m *Manifest) ContainsPath(path string) bool {
	if m == nil {
		return false
	}
	return m.byPath[path] > 0
}

// Replace swaps the record at position i wholesale. The replacement must keep the same
// path and kind.
func (m *Manifest) Replace(i int, r Record) {
	old := m.records[i]
	if old.Path != r.Path || old.IsDirectory != r.IsDirectory {
		panic("manifest: replacement must keep path and kind")
	}
	m.records[i] = r
}

// Len returns the number of records.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.records)
}

// At returns the record at position i.
func (m *Manifest) At(i int) Record {
	return m.records[i]
}

// Records returns the records in order. The slice is shared with the manifest and must
// not be modified.
func (m *Manifest) Records() []Record {
	if m == nil {
		return nil
	}
	return m.records
}

// TotalLength returns the sum of all positive record lengths.
func (m *Manifest) TotalLength() int64 {
	var total int64
	for _, r := range m.Records() {
		if r.HasLength() {
			total += *r.Length
		}
	}
	return total
}
