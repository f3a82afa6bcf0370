package mjpegdisplay

import (
	"bufio"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/vidrender/pkg/adapters/logger"
)

func frame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 200
		img.Pix[i+3] = 255
	}
	return img
}

func TestDisplay_Snapshot(t *testing.T) {
	d := New(80, logger.NewNoop())

	rec := httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/snapshot.jpg", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first frame, got %d", rec.Code)
	}

	if err := d.Flip(frame()); err != nil {
		t.Fatalf("Flip failed: %v", err)
	}

	rec = httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/snapshot.jpg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
	img, err := jpeg.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8, got %v", b)
	}
	r, _, _, _ := img.At(4, 4).RGBA()
	if r>>8 < 180 {
		t.Errorf("expected red channel near 200, got %d", r>>8)
	}
}

func TestDisplay_Status(t *testing.T) {
	d := New(0, logger.NewNoop())
	d.Flip(frame())
	d.Flip(frame())

	rec := httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))

	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Frames != 2 || st.Clients != 0 || st.Closed {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestDisplay_Stream(t *testing.T) {
	d := New(DefaultQuality, logger.NewNoop())
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/stream")
	if err != nil {
		t.Fatalf("GET /stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("expected multipart content type, got %s", ct)
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if d.Clients() != 1 {
		t.Fatalf("expected 1 client, got %d", d.Clients())
	}

	if err := d.Flip(frame()); err != nil {
		t.Fatalf("Flip failed: %v", err)
	}

	br := bufio.NewReader(resp.Body)
	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read boundary: %v", err)
	}
	if line != "--frame\r\n" {
		t.Errorf("expected boundary, got %q", line)
	}
	line, _ = br.ReadString('\n')
	if line != "Content-Type: image/jpeg\r\n" {
		t.Errorf("expected part content type, got %q", line)
	}

	d.Close()
	deadline = time.Now().Add(2 * time.Second)
	for d.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if d.Clients() != 0 {
		t.Errorf("expected clients to be dropped on close, got %d", d.Clients())
	}
}

func TestDisplay_Closed(t *testing.T) {
	d := New(DefaultQuality, logger.NewNoop())
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Flip(frame()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	rec := httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/stream", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after close, got %d", rec.Code)
	}
}

func TestDisplay_MethodNotAllowed(t *testing.T) {
	d := New(DefaultQuality, logger.NewNoop())
	rec := httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/snapshot.jpg", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
