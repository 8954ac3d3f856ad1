package catalogue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"FgdcMigrator/internal/config"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/source"
)

func refFor(location string) domain.SourceRef {
	return domain.SourceRef{ID: path.Base(location), Location: location}
}

func TestScannerDiscover(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body>
		  <a href="records/survey_2004.xml">survey_2004</a>
		  <a href="records/plankton_1997.XML">plankton_1997</a>
		  <a href="records/survey_2004.xml">duplicate link</a>
		  <a href="readme.txt">readme</a>
		  <a href="/other/absolute.xml">absolute</a>
		</body></html>`))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	refs, err := sc.Discover(context.Background(), source.Request{Location: server.URL + "/catalogue/"})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d: %v", len(refs), refs)
	}
	if refs[0].ID != "survey_2004.xml" {
		t.Fatalf("unexpected first id: %s", refs[0].ID)
	}
	if refs[1].ID != "plankton_1997.XML" {
		t.Fatalf("unexpected second id: %s", refs[1].ID)
	}
	if refs[2].Location != server.URL+"/other/absolute.xml" {
		t.Fatalf("unexpected third location: %s", refs[2].Location)
	}
}

func TestScannerFetch(t *testing.T) {
	t.Parallel()

	const payload = `<?xml version="1.0"?><metadata></metadata>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())

	data, err := sc.Fetch(context.Background(), refFor(server.URL+"/survey_2004.xml"))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("unexpected payload: %s", data)
	}

	if _, err := sc.Fetch(context.Background(), refFor(server.URL+"/missing.xml")); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestStrategySourceRoutesFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/catalogue/" {
			_, _ = w.Write([]byte(`<a href="record.xml">record</a>`))
			return
		}
		_, _ = w.Write([]byte(`<metadata></metadata>`))
	}))
	defer server.Close()

	registry := source.NewRegistry()
	registry.Register(NewScanner(server.Client()))

	src := NewStrategySource(registry, []config.CollectionConfig{
		{Name: "test", Source: "catalogue", Location: server.URL + "/catalogue/"},
	}, nil)

	refs, err := src.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}

	data, err := src.Fetch(context.Background(), refs[0])
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != `<metadata></metadata>` {
		t.Fatalf("unexpected payload: %s", data)
	}
}

func TestStrategySourceUnknownStrategy(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(source.NewRegistry(), []config.CollectionConfig{
		{Name: "broken", Source: "nope", Location: "http://example.org/"},
	}, nil)

	if _, err := src.Discover(context.Background()); err == nil {
		t.Fatal("expected error for unregistered strategy")
	}
}
