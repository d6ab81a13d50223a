package render

import (
	"bytes"
	"context"
	"testing"

	errs "github.com/matzehuels/ratiochase/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNGZoom(t *testing.T) {
	if _, err := ToPNG(context.Background(), []byte(square), 0); !errs.Is(err, errs.ErrCodeInvalidValue) {
		t.Errorf("ToPNG(zoom 0) error = %v, want INVALID_VALUE", err)
	}
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	if !Available() {
		if _, err := ToPDF(ctx, []byte(square)); !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Errorf("ToPDF without converter: error = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	pdf, err := ToPDF(ctx, []byte(square))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF output starts with %q", pdf[:min(len(pdf), 8)])
	}

	png, err := ToPNG(ctx, []byte(square), 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG output is not a PNG")
	}
}
