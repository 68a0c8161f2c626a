package jsonfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"places_reviews/internal/domain"
	"places_reviews/internal/storage/jsonfile"
)

func pfloat(f float64) *float64 { return &f }

var stamp = time.Date(2024, 3, 1, 9, 5, 7, 0, time.Local)

func sample() []domain.RawReview {
	return []domain.RawReview{
		{
			ID: 1, User: "Zoë Müller", Rating: pfloat(5), Review: "Très bien <3 & more",
			Date: domain.Timestamp{Unix: 1700000000, Valid: true}, ProfilePhoto: "https://example.org/p.png",
			RelativeTime: "a month ago", PlaceName: "Hôtel Test", PlaceAddress: "1 Rue", Category: "hotel",
		},
		{ID: 2, User: "Anonymous", Rating: pfloat(0), Date: domain.Timestamp{Unix: 1700000100, Valid: true}, Category: "hotel"},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "collected_reviews") // created on save
	st := jsonfile.New(dir).WithClock(func() time.Time { return stamp })

	in := sample()
	path, err := st.Save(in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "google_reviews_20240301_090507.json"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	got, err := st.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, in)
	}

	b, _ := os.ReadFile(path)
	s := string(b)
	if !strings.Contains(s, "Zoë Müller") || !strings.Contains(s, "<3 & more") {
		t.Fatalf("non-ASCII or HTML characters were escaped: %s", s)
	}
	if !strings.Contains(s, "\n    {\n        \"id\": 1,") {
		t.Fatalf("expected 4-space indentation, got: %s", s)
	}
}

func TestStore_SaveEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if _, err := jsonfile.New(dir).Save(nil); !errors.Is(err, jsonfile.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("directory should not be created for empty input")
	}
}

func TestStore_Find(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"google_reviews_20240102_000000.json", "google_reviews_20240101_000000.json", "other.json", "google_reviews_x.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	st := jsonfile.New(dir)

	got, err := st.Find("")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{
		filepath.Join(dir, "google_reviews_20240101_000000.json"),
		filepath.Join(dir, "google_reviews_20240102_000000.json"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}

	if got, _ := st.Find("elsewhere/file.json"); len(got) != 1 || got[0] != "elsewhere/file.json" {
		t.Fatalf("explicit file not honoured: %v", got)
	}
}

func TestStore_LoadTolerance(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	st := jsonfile.New(dir)

	if _, err := st.Load(write("obj.json", `{"reviews": []}`)); !errors.Is(err, jsonfile.ErrUnexpectedFormat) {
		t.Fatalf("expected ErrUnexpectedFormat, got %v", err)
	}
	if _, err := st.Load(write("null.json", "null")); !errors.Is(err, jsonfile.ErrUnexpectedFormat) {
		t.Fatalf("null top level: expected ErrUnexpectedFormat, got %v", err)
	}
	if got, err := st.Load(write("empty.json", "[]")); err != nil || len(got) != 0 {
		t.Fatalf("empty array = (%v, %v)", got, err)
	}
	if got, err := st.Load(write("huge.json", `[{"id": 1, "review": "far future", "date": 1e20}]`)); err != nil || len(got) != 1 || got[0].Date.Valid {
		t.Fatalf("out of range date should load as invalid: (%+v, %v)", got, err)
	}
	if _, err := st.Load(write("broken.json", `[{"id": 1`)); err == nil {
		t.Fatal("expected decode error for truncated file")
	}

	got, err := st.Load(write("mixed.json", `[
		{"id": 1, "review": "kept", "date": "not a time"},
		"just a string",
		{"id": 3, "review": "kept too", "date": 1700000000.9}
	]`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0].Date.Valid || got[1].Date.Unix != 1700000000 || got[1].Rating != nil {
		t.Fatalf("unexpected records: %+v", got)
	}
}
