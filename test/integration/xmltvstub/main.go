// xmltvstub is a minimal XMLTV feed server used by the integration tests.
// It serves the same guide in several packagings, including a deliberately
// mislabeled one to exercise the client's plain-text fallback.
package main

import (
	"bytes"
	"compress/gzip"
	"log"
	"net/http"
	"os"
)

const guide = `<?xml version="1.0" encoding="UTF-8"?>
<tv source-info-name="xmltvstub" generator-info-name="xmltvstub/1.0">
  <channel id="stub.one">
    <display-name>01: Stub One</display-name>
    <icon src="http://stub/one.png" width="100" height="100"/>
  </channel>
  <channel id="stub.two">
    <display-name>Stub Two</display-name>
  </channel>
  <programme channel="stub.one" start="20230917200000 +0000" stop="20230917210000 +0000">
    <title>Evening News</title>
    <desc>Stub news.</desc>
    <category lang="en">News</category>
  </programme>
  <programme channel="stub.one" start="20230917210000 +0000" stop="20230917220000 +0000">
    <title>Late Movie</title>
    <episode-num system="xmltv_ns">0.1.</episode-num>
  </programme>
  <programme channel="stub.two" start="20230917200000 +0000" stop="20230917223000 +0000">
    <title>Sports Night</title>
    <episode-num system="SxxExx">S3E12</episode-num>
  </programme>
  <programme channel="stub.two" start="20230917223000 +0000" stop="20230917223000 +0000">
    <title>Zero Length Glitch</title>
  </programme>
</tv>`

func main() {
	addr := getenv("XMLTVSTUB_ADDR", ":8099")

	gzipped := gzipBytes([]byte(guide))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /guide.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(guide))
	})
	mux.HandleFunc("GET /guide.xml.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(gzipped)
	})
	// Plain document behind a gzip content type.
	mux.HandleFunc("GET /mislabeled.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write([]byte(guide))
	})
	mux.HandleFunc("GET /broken.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte("<html>not a guide</html>"))
	})

	log.Printf("xmltv stub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func gzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		log.Fatalf("gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		log.Fatalf("gzip: %v", err)
	}
	return buf.Bytes()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
