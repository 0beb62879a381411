// Package breach screens passphrases against a corpus of known-compromised
// passwords. The corpus is split by passphrase length into line-delimited,
// byte-order sorted lists, one file per length (lists/NNN.txt), each pinned by
// a SHA-256 digest in lists/MANIFEST.
package breach

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ericfisherdev/passenger/internal/domain/model"
	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
)

// MaxIndexedLength is the longest passphrase, in code points, the corpus
// covers. Longer passphrases are never looked up; this is a deliberate
// ceiling of the source corpus, not a gap in the index.
const MaxIndexedLength = 285

const manifestName = "MANIFEST"

//go:embed lists
var embedded embed.FS

// Compile-time interface satisfaction check.
var _ driven.BreachIndex = (*Index)(nil)

// Index answers membership queries over a length-partitioned corpus. Lists
// are read at most once per length for the lifetime of the Index.
type Index struct {
	fsys   fs.FS
	once   sync.Once
	digest map[string]string // file name -> hex sha256
	err    error

	mu    sync.Mutex
	lists map[int][]string
	loads int
}

// New returns an Index over fsys, which must hold a MANIFEST and the NNN.txt
// lists at its root.
func New(fsys fs.FS) *Index {
	return &Index{fsys: fsys, lists: make(map[int][]string)}
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Default returns the Index over the embedded corpus, shared by the process.
func Default() *Index {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "lists")
		if err != nil {
			panic(fmt.Sprintf("breach: embedded corpus: %v", err))
		}
		defaultIndex = New(sub)
	})
	return defaultIndex
}

// IsKnownBreached reports whether passphrase appears in the corpus list for
// its length.
func (ix *Index) IsKnownBreached(passphrase string) (bool, error) {
	n := utf8.RuneCountInString(passphrase)
	if n > MaxIndexedLength {
		return false, nil
	}
	list, err := ix.list(n)
	if err != nil {
		return false, err
	}
	return BinarySearch(list, passphrase) >= 0, nil
}

// Loads returns how many lists have been read from the corpus so far.
func (ix *Index) Loads() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.loads
}

// BinarySearch returns the index of target in the ordinally sorted list, or
// -1 when it is absent.
func BinarySearch(list []string, target string) int {
	lo, hi := 0, len(list)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := strings.Compare(list[mid], target); {
		case c == 0:
			return mid
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

func (ix *Index) list(length int) ([]string, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if l, ok := ix.lists[length]; ok {
		return l, nil
	}
	l, err := ix.read(length)
	if err != nil {
		return nil, err
	}
	ix.lists[length] = l
	ix.loads++
	return l, nil
}

func (ix *Index) read(length int) ([]string, error) {
	if err := ix.loadManifest(); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%03d.txt", length)
	want, listed := ix.digest[name]

	data, err := fs.ReadFile(ix.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		if listed {
			return nil, model.NewErrorf(model.KindIntegrity, "breach list %s is in the manifest but missing", name)
		}
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read breach list %s: %w", name, err)
	}

	sum := sha256.Sum256(data)
	if !listed || hex.EncodeToString(sum[:]) != want {
		return nil, model.NewErrorf(model.KindIntegrity, "breach list %s does not match its manifest digest", name)
	}

	list := splitLines(data)
	if !slices.IsSorted(list) {
		return nil, model.NewErrorf(model.KindIntegrity, "breach list %s is not sorted", name)
	}
	return list, nil
}

func (ix *Index) loadManifest() error {
	ix.once.Do(func() {
		ix.digest, ix.err = readManifest(ix.fsys)
	})
	return ix.err
}

func readManifest(fsys fs.FS) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, manifestName)
	if err != nil {
		return nil, fmt.Errorf("read breach manifest: %w", err)
	}

	digest := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 || path.Base(fields[1]) != fields[1] {
			return nil, model.NewErrorf(model.KindIntegrity, "breach manifest line %d is malformed", line)
		}
		digest[fields[1]] = strings.ToLower(fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan breach manifest: %w", err)
	}
	return digest, nil
}

func splitLines(data []byte) []string {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
