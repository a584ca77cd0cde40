package document

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      []byte
		mediaType string
		want      string
		wantErr   bool
	}{
		{name: "pdf", data: []byte("%PDF-1.7"), mediaType: "application/pdf", want: MediaPDF},
		{name: "jpg alias", data: []byte{0xff}, mediaType: "image/jpg", want: MediaJPG},
		{name: "parameters stripped", data: []byte("hi"), mediaType: "Text/Plain; charset=utf-8", want: MediaText},
		{name: "markdown", data: []byte("# Role"), mediaType: "text/markdown", want: MediaMarkdown},
		{name: "word document", data: []byte("x"), mediaType: "application/msword", wantErr: true},
		{name: "gif", data: []byte("GIF89a"), mediaType: "image/gif", wantErr: true},
		{name: "empty media type", data: []byte("x"), mediaType: "", wantErr: true},
		{name: "empty document", data: nil, mediaType: "text/plain", wantErr: true},
		{name: "too large", data: make([]byte, MaxSize+1), mediaType: "image/png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Validate(tt.data, tt.mediaType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, MediaMarkdown, DetectMediaType("job.MD", []byte("# Senior Go engineer")))
	assert.Equal(t, MediaPDF, DetectMediaType("scan.pdf", nil))
	assert.Equal(t, MediaPNG, DetectMediaType("noext", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.Equal(t, MediaText, DetectMediaType("noext", []byte("plain words")))
}

type stubExtractor struct {
	res   Result
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, []byte, string) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestProcess(t *testing.T) {
	res, err := Process(context.Background(), PlainText{}, []byte("  Senior Go engineer\n"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", res.Text)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestProcessRejectsBeforeExtracting(t *testing.T) {
	stub := &stubExtractor{}

	_, err := Process(context.Background(), stub, []byte("x"), "application/zip")
	assert.ErrorIs(t, err, ErrUnsupportedInput)
	assert.Zero(t, stub.calls)
}

func TestProcessNormalizesResult(t *testing.T) {
	stub := &stubExtractor{res: Result{Text: "text", Confidence: 1.7, ProcessingTime: time.Second}}

	res, err := Process(context.Background(), stub, []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, time.Second, res.ProcessingTime)

	stub.res = Result{Text: "text", Confidence: math.NaN()}
	res, err = Process(context.Background(), stub, []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Zero(t, res.Confidence)

	stub.res = Result{Text: "   "}
	_, err = Process(context.Background(), stub, []byte("img"), "image/png")
	assert.Error(t, err)

	stub.res, stub.err = Result{}, errors.New("ocr crashed")
	_, err = Process(context.Background(), stub, []byte("img"), "image/png")
	assert.ErrorIs(t, err, stub.err)
}

func TestPlainTextRejectsImages(t *testing.T) {
	_, err := PlainText{}.Extract(context.Background(), []byte("x"), MediaPNG)
	assert.ErrorIs(t, err, ErrUnsupportedInput)

	_, err = PlainText{}.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, MediaText)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestRouter(t *testing.T) {
	ocr := &stubExtractor{res: Result{Text: "from ocr", Confidence: 0.8}}
	r := Router{OCR: ocr}

	res, err := r.Extract(context.Background(), []byte("typed"), MediaMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "typed", res.Text)
	assert.Zero(t, ocr.calls)

	res, err = r.Extract(context.Background(), []byte("img"), MediaJPEG)
	require.NoError(t, err)
	assert.Equal(t, "from ocr", res.Text)

	_, err = Router{}.Extract(context.Background(), []byte("img"), MediaJPEG)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestCommand(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat is not available")
	}

	res, err := Command{Path: cat, Timeout: 5 * time.Second}.Extract(context.Background(), []byte("scanned words"), MediaPNG)
	require.NoError(t, err)
	assert.Equal(t, "scanned words", res.Text)
	assert.Zero(t, res.Confidence)

	_, err = Command{}.Extract(context.Background(), []byte("x"), MediaPNG)
	assert.Error(t, err)

	_, err = Command{Path: "/definitely/not/an/ocr/binary"}.Extract(context.Background(), bytes.Repeat([]byte("x"), 4), MediaPNG)
	assert.Error(t, err)
}
