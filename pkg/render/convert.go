package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrNoConverter is returned when rsvg-convert is not on the PATH.
var ErrNoConverter = errors.New("PDF and PNG export require rsvg-convert (brew install librsvg, apt install librsvg2-bin)")

// converter is the external SVG converter.
var converter = "rsvg-convert"

// Available reports whether PDF and PNG conversion can run.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2.0 doubles the resolution.
// Scales <= 0 are rejected.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %g", scale)
	}
	return convert(svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	path, err := exec.LookPath(converter)
	if err != nil {
		return nil, ErrNoConverter
	}

	cmd := exec.Command(path, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s export: %v: %s", format, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
