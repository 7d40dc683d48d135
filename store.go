package moexdata

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Key addresses one stored dataset: a category folder and a ticker file.
type Key struct {
	Category string
	Ticker   string
}

// NewKey returns a key with the ticker normalized to upper case, so that
// "gazp" and "GAZP" address the same file.
func NewKey(category, ticker string) Key {
	return Key{Category: category, Ticker: strings.ToUpper(ticker)}
}

func (k Key) String() string { return k.Category + "/" + k.Ticker }

// Store persists tables as one CSV file per key under a root data folder,
// at <root>/<category>/<TICKER>.csv. Category folders are created lazily on
// first write.
//
// The store assumes a single owning process per data folder: there is no
// cross-process locking on the files. Within a process, Save is atomic with
// respect to concurrent readers of the same file.
type Store struct {
	root string
}

// NewStore returns a store rooted at the given data folder.
func NewStore(root string) *Store { return &Store{root: root} }

// Path returns the file backing the given key.
func (s *Store) Path(k Key) string {
	return filepath.Join(s.root, k.Category, k.Ticker+".csv")
}

// Exists reports whether the key has a backing file.
func (s *Store) Exists(k Key) bool {
	_, err := os.Stat(s.Path(k))
	return err == nil
}

// AgeInDays returns the wall-clock time in days since the key was last
// written. It fails with ErrNotFound if the key has never been written.
func (s *Store) AgeInDays(k Key) (float64, error) {
	fi, err := os.Stat(s.Path(k))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%s: %w", k, ErrNotFound)
		}
		return 0, fmt.Errorf("cannot stat local data for %s: %w", k, err)
	}
	return time.Since(fi.ModTime()).Hours() / 24, nil
}

// Save overwrites the entire backing file of the key with the table.
//
// The table is first fully written to a temporary file in the same folder
// and then renamed over the old one, so a failure never truncates existing
// content and readers never observe a partial write.
func (s *Store) Save(k Key, t *Table) error {
	path := s.Path(k)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageWriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), k.Ticker+"-*.tmp")
	if err != nil {
		return &StorageWriteError{Path: path, Err: err}
	}
	if err := EncodeTable(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &StorageWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &StorageWriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &StorageWriteError{Path: path, Err: err}
	}
	log.Printf("write-dataset key=%s rows=%d", k, t.Len())
	return nil
}

// Load reads and decodes the backing file of the key according to spec.
// It fails with ErrNotFound if the key has never been written, and with
// CorruptDataError if the content cannot be decoded.
func (s *Store) Load(k Key, spec ColumnSpec) (*Table, error) {
	path := s.Path(k)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", k, ErrNotFound)
		}
		return nil, fmt.Errorf("cannot open local data for %s: %w", k, err)
	}
	defer f.Close()

	t, err := DecodeTable(f, spec)
	if err != nil {
		return nil, &CorruptDataError{Path: path, Err: err}
	}
	return t, nil
}
