package xmltvfetch

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/ulikunitz/xz"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
	"github.com/githubixx/xmltv-epg-go/internal/ports"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<tv source-info-name="test-feed">
  <channel id="ch1"><display-name>Channel One</display-name></channel>
  <programme channel="ch1" start="20230917200000 +0000" stop="20230917210000 +0000">
    <title>Evening Show</title>
  </programme>
</tv>`

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipBytes(t *testing.T, entries map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(entries[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func brotliBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fetchFrom(t *testing.T, srv *httptest.Server, opts ...Option) (*domain.Guide, error) {
	t.Helper()
	client := NewClient(srv.URL, 5*time.Second, opts...)
	return client.FetchGuide(context.Background())
}

func assertTestFeed(t *testing.T, g *domain.Guide, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("FetchGuide: %v", err)
	}
	ch := g.GetChannel("ch1")
	if ch == nil {
		t.Fatal("channel ch1 missing")
	}
	if len(ch.Programs()) != 1 || ch.Programs()[0].Title != "Evening Show" {
		t.Errorf("unexpected schedule: %v", ch.Programs())
	}
}

// TestFetchGuide_Plain tests the uncompressed happy path
func TestFetchGuide_Plain(t *testing.T) {
	for _, contentType := range []string{"text/xml", "application/xml", "text/xml; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", contentType)
				w.Write([]byte(testFeed))
			}))
			defer srv.Close()

			g, err := fetchFrom(t, srv)
			assertTestFeed(t, g, err)
		})
	}
}

// TestFetchGuide_GzipPackaging tests gzip-packaged feeds by content type
func TestFetchGuide_GzipPackaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.Write(gzipBytes(t, []byte(testFeed)))
	}))
	defer srv.Close()

	g, err := fetchFrom(t, srv)
	assertTestFeed(t, g, err)
}

// TestFetchGuide_GzipByURLSuffix tests gzip selection via a .gz URL with a
// generic content type
func TestFetchGuide_GzipByURLSuffix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/guide.xml.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(gzipBytes(t, []byte(testFeed)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL+"/guide.xml.gz", 5*time.Second)
	g, err := client.FetchGuide(context.Background())
	assertTestFeed(t, g, err)
}

// TestFetchGuide_XZPackaging tests xz-packaged feeds
func TestFetchGuide_XZPackaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-xz")
		w.Write(xzBytes(t, []byte(testFeed)))
	}))
	defer srv.Close()

	g, err := fetchFrom(t, srv)
	assertTestFeed(t, g, err)
}

// TestFetchGuide_ZipPackaging tests zip-packaged feeds
func TestFetchGuide_ZipPackaging(t *testing.T) {
	t.Run("SingleEntry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/zip")
			w.Write(zipBytes(t, map[string][]byte{"guide.xml": []byte(testFeed)}, "guide.xml"))
		}))
		defer srv.Close()

		g, err := fetchFrom(t, srv)
		assertTestFeed(t, g, err)
	})

	t.Run("MultipleEntriesPrefersXML", func(t *testing.T) {
		entries := map[string][]byte{
			"README.txt": []byte("not the feed"),
			"guide.xml":  []byte(testFeed),
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/zip")
			w.Write(zipBytes(t, entries, "README.txt", "guide.xml"))
		}))
		defer srv.Close()

		g, err := fetchFrom(t, srv)
		assertTestFeed(t, g, err)
	})
}

// TestFetchGuide_TransferEncoding tests the Content-Encoding layer on top
// of the packaging layer
func TestFetchGuide_TransferEncoding(t *testing.T) {
	t.Run("Gzip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(gzipBytes(t, []byte(testFeed)))
		}))
		defer srv.Close()

		g, err := fetchFrom(t, srv)
		assertTestFeed(t, g, err)
	})

	t.Run("Brotli", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			w.Header().Set("Content-Encoding", "br")
			w.Write(brotliBytes(t, []byte(testFeed)))
		}))
		defer srv.Close()

		g, err := fetchFrom(t, srv)
		assertTestFeed(t, g, err)
	})

	t.Run("GzipOverGzipPackaging", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/gzip")
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(gzipBytes(t, gzipBytes(t, []byte(testFeed))))
		}))
		defer srv.Close()

		g, err := fetchFrom(t, srv)
		assertTestFeed(t, g, err)
	})

	t.Run("UnsupportedEncoding", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			w.Header().Set("Content-Encoding", "zstd")
			w.Write([]byte(testFeed))
		}))
		defer srv.Close()

		_, err := fetchFrom(t, srv)
		if !errors.Is(err, domain.ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
	})
}

// TestFetchGuide_MislabeledPlainFallback tests the wrong-content-type
// workaround: a plain feed served with a gzip content type still parses
func TestFetchGuide_MislabeledPlainFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	g, err := fetchFrom(t, srv)
	assertTestFeed(t, g, err)
}

// TestFetchGuide_UnknownContentType tests that unrecognized types go down
// the plain path
func TestFetchGuide_UnknownContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	g, err := fetchFrom(t, srv)
	assertTestFeed(t, g, err)
}

// TestFetchGuide_Errors tests the error taxonomy
func TestFetchGuide_Errors(t *testing.T) {
	t.Run("HTTPStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := fetchFrom(t, srv)
		if !errors.Is(err, domain.ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // shut down before fetching

		client := NewClient(srv.URL, time.Second)
		_, err := client.FetchGuide(context.Background())
		if !errors.Is(err, domain.ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 20*time.Millisecond)
		_, err := client.FetchGuide(context.Background())
		if !errors.Is(err, domain.ErrTimeout) {
			t.Errorf("error = %v, want ErrTimeout", err)
		}
	})

	t.Run("NotXMLTV", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			w.Write([]byte("<html><body>login page</body></html>"))
		}))
		defer srv.Close()

		_, err := fetchFrom(t, srv)
		if !errors.Is(err, domain.ErrBadDocument) {
			t.Errorf("error = %v, want ErrBadDocument", err)
		}
	})

	t.Run("BodyTooLarge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/xml")
			w.Write(bytes.Repeat([]byte("x"), 2048))
		}))
		defer srv.Close()

		_, err := fetchFrom(t, srv, WithMaxBodySize(1024))
		if !errors.Is(err, domain.ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
	})
}

// TestClient_Contract runs the shared GuideClient contract suite against a
// stub-backed real client
func TestClient_Contract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	factory := func() (ports.GuideClient, func()) {
		return NewClient(srv.URL, 5*time.Second), func() {}
	}
	ports.RunGuideClientContractTests(t, factory)
}
