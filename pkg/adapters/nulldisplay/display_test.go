package nulldisplay

import (
	"image"
	"testing"
)

func TestDisplay_Flip(t *testing.T) {
	d := New()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	for i := 0; i < 3; i++ {
		if err := d.Flip(img); err != nil {
			t.Fatalf("Flip failed: %v", err)
		}
	}
	if d.Flips() != 3 {
		t.Errorf("expected 3 flips, got %d", d.Flips())
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
