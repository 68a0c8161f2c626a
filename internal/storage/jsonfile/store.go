package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"places_reviews/internal/domain"
	"places_reviews/internal/storage/atomicfile"
)

const (
	filePrefix = "google_reviews_"
	stampFmt   = "20060102_150405"
)

var (
	ErrNoData           = errors.New("no data to save")
	ErrUnexpectedFormat = errors.New("unexpected format: top level is not a list")
)

// Store keeps collector batches as google_reviews_<stamp>.json files in one directory.
type Store struct {
	dir string
	now func() time.Time
}

func New(dir string) *Store { return &Store{dir: dir, now: time.Now} }

// WithClock replaces the clock used for file names.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// FileName returns the file a batch saved at t would be written to.
func (s *Store) FileName(t time.Time) string {
	return filepath.Join(s.dir, filePrefix+t.Format(stampFmt)+".json")
}

// Save writes the batch as an indented JSON array. The file appears whole or not at all.
func (s *Store) Save(reviews []domain.RawReview) (string, error) {
	if len(reviews) == 0 {
		return "", ErrNoData
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(reviews); err != nil {
		return "", fmt.Errorf("encode reviews: %w", err)
	}

	path := s.FileName(s.now())
	if err := atomicfile.Write(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) Find(specific string) ([]string, error) {
	if specific != "" {
		return []string{specific}, nil
	}
	files, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Load reads one collector file. Elements that fail to decode are skipped with a warning;
// a file whose top level is not an array (null included) yields ErrUnexpectedFormat.
func (s *Store) Load(path string) ([]domain.RawReview, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%s: %w", path, ErrUnexpectedFormat)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnexpectedFormat)
	}

	out := make([]domain.RawReview, 0, len(items))
	for i, it := range items {
		var r domain.RawReview
		if err := json.Unmarshal(it, &r); err != nil {
			log.Warn().Err(err).Str("file", path).Int("index", i).Msg("skipping undecodable review")
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
