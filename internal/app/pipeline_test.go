package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"places_reviews/internal/adapters/places"
	"places_reviews/internal/app"
	"places_reviews/internal/domain"
	"places_reviews/internal/shared"
	"places_reviews/internal/storage/csvfile"
	"places_reviews/internal/storage/jsonfile"
)

type staticCreds struct{ c shared.Credentials }

func (s staticCreds) Name() string                        { return "static" }
func (s staticCreds) Lookup() (shared.Credentials, error) { return s.c, nil }

func fakeProvider(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := new(int)
	r := chi.NewRouter()
	r.Get("/details/json", func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, hits
}

func newPipeline(t *testing.T, dir, baseURL string, creds shared.Credentials) *app.Pipeline {
	t.Helper()
	return app.NewPipeline(app.PipelineDeps{
		Credentials: []shared.CredentialProvider{staticCreds{creds}},
		NewClient: func(apiKey string) (domain.PlacesClient, error) {
			return places.New(baseURL+"/details/json", apiKey, time.Second)
		},
		Store:    jsonfile.New(filepath.Join(dir, "collected_reviews")).WithClock(clock),
		Exporter: csvfile.New(),
		CSVBase:  filepath.Join(dir, "app_ready_reviews.csv"),
		Now:      clock,
	})
}

func TestPipeline_ScenarioE_MissingPlaceID(t *testing.T) {
	t.Setenv(shared.EnvAPIKey, "")
	t.Setenv(shared.EnvPlaceID, "")
	dir := t.TempDir()
	clientBuilt := false

	p := app.NewPipeline(app.PipelineDeps{
		Credentials: []shared.CredentialProvider{
			shared.FileProvider{Path: filepath.Join(dir, "config.yaml")}, // absent
			staticCreds{shared.Credentials{APIKey: "key-only"}},
			shared.EnvProvider{},
		},
		NewClient: func(string) (domain.PlacesClient, error) {
			clientBuilt = true
			return nil, errors.New("must not be called")
		},
		Store:    jsonfile.New(filepath.Join(dir, "collected_reviews")),
		Exporter: csvfile.New(),
		CSVBase:  filepath.Join(dir, "app_ready_reviews.csv"),
	})

	_, err := p.Run(context.Background())
	if !errors.Is(err, shared.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials, got %v", err)
	}
	if clientBuilt {
		t.Fatal("no client should be built before credentials resolve")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no files expected, found %d", len(entries))
	}
}

func TestPipeline_CollectsAndExports(t *testing.T) {
	ts, hits := fakeProvider(t, `{"status":"OK","result":{
		"name":"Corner Bakery","formatted_address":"5 Main Rd","types":["bakery","store"],
		"reviews":[
			{"author_name":"Ana","rating":4,"text":"Fresh bread every morning","time":1700000000},
			{"author_name":"Bob","rating":5,"text":"ok","time":1700000100}
		]}}`)
	dir := t.TempDir()

	res, err := newPipeline(t, dir, ts.URL, shared.Credentials{APIKey: "k", PlaceID: "p"}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if *hits != 1 {
		t.Fatalf("expected one request, got %d", *hits)
	}
	if res.Outcome != app.OutcomeExported {
		t.Fatalf("unexpected outcome: %+v", res)
	}
	wantJSON := filepath.Join(dir, "collected_reviews", "google_reviews_20240301_123045.json")
	wantCSV := filepath.Join(dir, "app_ready_reviews_20240301_123045.csv")
	if res.JSONPath != wantJSON || res.CSVPath != wantCSV {
		t.Fatalf("paths = %q, %q", res.JSONPath, res.CSVPath)
	}
	b, err := os.ReadFile(wantCSV)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := "author,location,content,category,rating\nAna,5 Main Rd,Fresh bread every morning,restaurant,4\n"
	if string(b) != want {
		t.Fatalf("csv = %q, want %q", b, want)
	}
}

func TestPipeline_EmptyPlaceSkipsPreprocessing(t *testing.T) {
	ts, _ := fakeProvider(t, `{"status":"OK","result":{"name":"Somewhere","types":["route"],"reviews":[]}}`)
	dir := t.TempDir()

	res, err := newPipeline(t, dir, ts.URL, shared.Credentials{APIKey: "k", PlaceID: "p"}).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Outcome != app.OutcomeNoReviews || res.EmptyReason != domain.EmptyAddressPlace {
		t.Fatalf("unexpected result: %+v", res)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("no files expected, found %d", len(entries))
	}
}

func TestPipeline_CollectorFailureAborts(t *testing.T) {
	ts, _ := fakeProvider(t, `{"status":"INVALID_REQUEST","error_message":"bad place id"}`)
	dir := t.TempDir()

	_, err := newPipeline(t, dir, ts.URL, shared.Credentials{APIKey: "k", PlaceID: "p"}).Run(context.Background())
	var apiErr *domain.APIStatusError
	if !errors.As(err, &apiErr) || apiErr.Status != "INVALID_REQUEST" {
		t.Fatalf("expected API status error, got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("no files expected, found %d", len(entries))
	}
}
