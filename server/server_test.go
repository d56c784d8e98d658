package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/bookprint/printspec"
)

func newTestServer() *Server {
	return New(Options{MaxUploadBytes: 1 << 20})
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSpineEndpoint(t *testing.T) {
	s := newTestServer()
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/spine?pages=500", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[spineResponse](t, rec)
	if resp.SpineWidth != printspec.SpineWidth(500) || !resp.InRange {
		t.Fatalf("unexpected response %+v", resp)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, "order-42")
	rec := do(t, newTestServer(), req)
	if got := rec.Header().Get(requestIDHeader); got != "order-42" {
		t.Fatalf("request id = %q", got)
	}
}

func TestBadQueryParameters(t *testing.T) {
	s := newTestServer()
	for _, target := range []string{
		"/api/spine",
		"/api/spine?pages=abc",
		"/api/cover?pages=1.5",
		"/api/pages?stops=",
		"/api/structure?stops=x",
		"/api/cover/template.pdf?pages=10",
	} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		if resp := decode[errorResponse](t, rec); resp.Error == "" {
			t.Fatalf("%s: empty error message", target)
		}
	}
}

func TestCoverEndpoint(t *testing.T) {
	rec := do(t, newTestServer(), httptest.NewRequest(http.MethodGet, "/api/cover?pages=24", nil))
	resp := decode[coverResponse](t, rec)
	c := resp.Cover
	if c.Width != 20.5 || c.Height != 10.25 || c.WidthPx != 6150 || c.HeightPx != 3075 {
		t.Fatalf("unexpected cover %+v", c)
	}
	if c.BackCoverX != 63 || c.SpineX != 729 || c.FrontCoverX != 801 {
		t.Fatalf("unexpected offsets %+v", c)
	}
	if len(resp.Panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(resp.Panels))
	}

	rec = do(t, newTestServer(), httptest.NewRequest(http.MethodGet, "/api/cover?pages=5", nil))
	if resp := decode[coverResponse](t, rec); resp.InRange || resp.Cover.SpineWidth != 0.25 {
		t.Fatalf("out-of-range cover should fall back to minimum spine: %+v", resp)
	}
}

func TestPagesAndStructure(t *testing.T) {
	s := newTestServer()
	pages := decode[pagesResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/pages?stops=12", nil)))
	if pages.PageCount != 28 || pages.FrontMatterPages != 2 || pages.BackMatterPages != 2 {
		t.Fatalf("unexpected pages response %+v", pages)
	}

	st := decode[structureResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/structure?stops=3", nil)))
	if st.PageCount != 24 || len(st.Pages) != 24 || st.StoryPages != 6 {
		t.Fatalf("unexpected structure: count=%d pages=%d story=%d", st.PageCount, len(st.Pages), st.StoryPages)
	}
	if st.Pages[0].Type != printspec.PageTitle {
		t.Fatalf("first page = %s", st.Pages[0].Type)
	}
}

func TestStopsOutsideFormatLimits(t *testing.T) {
	s := newTestServer()
	for _, target := range []string{
		"/api/structure?stops=1000000",
		"/api/pages?stops=1000000",
		"/api/structure?stops=9223372036854775807",
		"/api/pages?stops=-1",
		"/api/structure?stops=399",
	} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		if resp := decode[errorResponse](t, rec); !strings.Contains(resp.Error, "stops must be between 0 and 398") {
			t.Fatalf("%s: error = %q", target, resp.Error)
		}
	}

	st := decode[structureResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/structure?stops=398", nil)))
	if st.PageCount != 800 || len(st.Pages) != 800 {
		t.Fatalf("largest book: count=%d pages=%d", st.PageCount, len(st.Pages))
	}
}

func TestMethodMismatchIsJSON405(t *testing.T) {
	s := newTestServer()
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/images/analyze"},
		{http.MethodPost, "/api/spine?pages=24"},
		{http.MethodDelete, "/api/structure?stops=3"},
	} {
		rec := do(t, s, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d", tc.method, tc.target, rec.Code)
		}
		if resp := decode[errorResponse](t, rec); resp.Error != "method not allowed" {
			t.Fatalf("%s %s: error = %q", tc.method, tc.target, resp.Error)
		}
	}
	if rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/nope", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: status = %d", rec.Code)
	}
}

func TestAnalyzeJSON(t *testing.T) {
	s := newTestServer()
	body := strings.NewReader(`{"width":1500,"height":1500}`)
	req := httptest.NewRequest(http.MethodPost, "/api/images/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[analyzeResponse](t, rec)
	if resp.Status != printspec.StatusNeedsUpscale || !resp.Printable || resp.Photo != nil {
		t.Fatalf("unexpected analysis %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/images/analyze", strings.NewReader(`{"width":"big"}`))
	if rec := do(t, s, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad JSON: status = %d", rec.Code)
	}
	if rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/images/analyze", nil)); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET analyze: status = %d", rec.Code)
	}
}

func multipartBody(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeUpload(t *testing.T) {
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewGray(image.Rect(0, 0, 640, 480))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	body, ctype := multipartBody(t, img.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/images/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := do(t, newTestServer(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[analyzeResponse](t, rec)
	if resp.Photo == nil || resp.Photo.Width != 640 || resp.Photo.MIME != "image/png" {
		t.Fatalf("unexpected photo info %+v", resp.Photo)
	}
	if resp.Status != printspec.StatusTooSmall || resp.Printable {
		t.Fatalf("640x480 should be too small: %+v", resp.ImageAnalysis)
	}

	body, ctype = multipartBody(t, []byte("just some text, not a photo"))
	req = httptest.NewRequest(http.MethodPost, "/api/images/analyze", body)
	req.Header.Set("Content-Type", ctype)
	if rec := do(t, newTestServer(), req); rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("text upload: status = %d", rec.Code)
	}
}

func TestCoverTemplatePDF(t *testing.T) {
	rec := do(t, newTestServer(), httptest.NewRequest(http.MethodGet, "/api/cover/template.pdf?pages=100", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestPricingAndMetrics(t *testing.T) {
	s := New(Options{Pricing: printspec.Pricing{BookPriceCents: 5000, EstimatedPrintCostCents: 1000, EstimatedShippingCents: 500, Currency: "usd"}})
	resp := decode[pricingResponse](t, do(t, s, httptest.NewRequest(http.MethodGet, "/api/pricing", nil)))
	if resp.BookPriceCents != 5000 || resp.EstimatedMarginCents != 3500 {
		t.Fatalf("unexpected pricing %+v", resp)
	}

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "bookprint_http_requests_total") {
		t.Fatalf("metrics missing request counter: %d", rec.Code)
	}
	if rec := do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: status = %d", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().Serve(ctx, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthcheck")
	if err != nil {
		t.Fatalf("healthcheck: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthcheck status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
