package middleware

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
)

const gzipLevel = 5

var gzipPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzipLevel)
		return gz
	},
}

// Compression gzips responses for clients that accept it
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method == http.MethodHead || !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		gz.Reset(w)
		gw := &gzipWriter{ResponseWriter: w, gz: gz}
		defer func() {
			if !gw.started {
				// nothing was written; do not emit a bare gzip stream
				gz.Reset(io.Discard)
			}
			gz.Close()
			gzipPool.Put(gz)
		}()

		next.ServeHTTP(gw, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(coding, "gzip") {
			return true
		}
	}
	return false
}

type gzipWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	started bool
}

func (w *gzipWriter) WriteHeader(statusCode int) {
	if w.started {
		return
	}
	w.started = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}
	return w.gz.Write(b)
}

// ETag buffers successful GET responses, tags them with a content hash and
// answers 304 when the client already holds that version
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusOK {
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())
			return
		}

		etag := contentTag(rec.body.Bytes())
		w.Header().Set("ETag", etag)
		if matchesTag(r.Header.Get("If-None-Match"), etag) {
			w.Header().Del("Content-Encoding")
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(rec.body.Bytes())
	})
}

func contentTag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// matchesTag reports whether an If-None-Match header names etag
func matchesTag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

type bufferedWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

type cachePolicy struct {
	matches func(path string) bool
	header  string
}

// cachePolicies are checked in order; the first match wins
var cachePolicies = []cachePolicy{
	{
		// answers depend on the current time
		matches: func(p string) bool { return p == "/api/clinics/open" || p == "/health" || strings.HasSuffix(p, "/status") },
		header:  "no-store",
	},
	{
		matches: func(p string) bool { return strings.HasPrefix(p, "/api/geocode") },
		header:  "public, max-age=3600",
	},
	{
		matches: func(p string) bool {
			return strings.HasPrefix(p, "/api/veterinarians/") || strings.HasPrefix(p, "/api/clinics/")
		},
		header: "public, max-age=60, must-revalidate",
	},
}

// CacheControl sets Cache-Control from the request path
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := "private, no-cache, must-revalidate"
		for _, policy := range cachePolicies {
			if policy.matches(r.URL.Path) {
				header = policy.header
				break
			}
		}
		w.Header().Set("Cache-Control", header)
		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization chains CacheControl, ETag and Compression
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(ETag(Compression(next)))
}
