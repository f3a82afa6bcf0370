// Package mjpegdisplay streams presented frames as Motion JPEG over HTTP.
package mjpegdisplay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/user/vidrender/pkg/ports"
)

// ErrClosed is returned by Flip after Close.
var ErrClosed = errors.New("mjpegdisplay: display closed")

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// Display implements ports.Display by broadcasting each flipped frame to
// every connected /stream client. Slow clients skip frames.
type Display struct {
	quality int
	logger  ports.Logger
	router  *mux.Router

	mu      sync.RWMutex
	closed  bool
	last    []byte
	frames  uint64
	clients map[chan []byte]struct{}
}

// New creates a Display. A quality outside 1..100 selects DefaultQuality.
func New(quality int, logger ports.Logger) *Display {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	d := &Display{
		quality: quality,
		logger:  logger.WithComponent("mjpeg"),
		router:  mux.NewRouter(),
		clients: make(map[chan []byte]struct{}),
	}
	d.router.HandleFunc("/stream", d.handleStream).Methods("GET")
	d.router.HandleFunc("/snapshot.jpg", d.handleSnapshot).Methods("GET")
	d.router.HandleFunc("/status", d.handleStatus).Methods("GET")
	return d
}

// Handler returns the HTTP routes of the display.
func (d *Display) Handler() http.Handler {
	return d.router
}

// Flip encodes the frame and hands it to every client.
func (d *Display) Flip(img *image.RGBA) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.quality}); err != nil {
		return fmt.Errorf("mjpegdisplay: encode JPEG: %w", err)
	}
	data := buf.Bytes()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.last = data
	d.frames++
	for ch := range d.clients {
		select {
		case ch <- data:
		default:
		}
	}
	return nil
}

// Close disconnects every client. Later flips fail.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	for ch := range d.clients {
		close(ch)
	}
	d.clients = make(map[chan []byte]struct{})
	d.logger.Info("MJPEG output stopped after %d frames", d.frames)
	return nil
}

// Clients returns the number of connected stream clients.
func (d *Display) Clients() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}

func (d *Display) subscribe() (chan []byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, false
	}
	ch := make(chan []byte, 2)
	d.clients[ch] = struct{}{}
	d.logger.Debug("Stream client connected (total: %d)", len(d.clients))
	return ch, true
}

func (d *Display) unsubscribe(ch chan []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.clients[ch]; ok {
		delete(d.clients, ch)
		d.logger.Debug("Stream client disconnected (remaining: %d)", len(d.clients))
	}
}

func (d *Display) handleStream(w http.ResponseWriter, r *http.Request) {
	ch, ok := d.subscribe()
	if !ok {
		http.Error(w, "display closed", http.StatusServiceUnavailable)
		return
	}
	defer d.unsubscribe(ch)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := fmt.Fprint(w, "\r\n"); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

func (d *Display) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	data := d.last
	d.mu.RUnlock()

	if data == nil {
		http.Error(w, "no frame presented yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// Status is the body of GET /status.
type Status struct {
	Frames  uint64 `json:"frames"`
	Clients int    `json:"clients"`
	Closed  bool   `json:"closed"`
}

func (d *Display) handleStatus(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	st := Status{Frames: d.frames, Clients: len(d.clients), Closed: d.closed}
	d.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

var _ ports.Display = (*Display)(nil)
