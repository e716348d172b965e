package ocr_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvoice/internal/ocr"
)

var (
	pdfData  = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
	pngData  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegData = []byte("\xff\xd8\xff\xe0\x00\x10JFIF")
	xmlData  = []byte("\xef\xbb\xbf  <?xml version=\"1.0\"?><rsm:CrossIndustryInvoice/>")
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   ocr.Format
		wantOK bool
	}{
		{"pdf", pdfData, ocr.FormatPDF, true},
		{"png", pngData, ocr.FormatPNG, true},
		{"jpeg", jpegData, ocr.FormatJPEG, true},
		{"tiff little endian", []byte("II*\x00rest"), ocr.FormatTIFF, true},
		{"tiff big endian", []byte("MM\x00*rest"), ocr.FormatTIFF, true},
		{"xml with bom", xmlData, ocr.FormatXML, true},
		{"text", []byte("hello"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ocr.Detect(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckScan(t *testing.T) {
	dir := t.TempDir()

	file, err := ocr.CheckScan(writeFile(t, dir, "rechnung.pdf", pdfData))
	require.NoError(t, err)
	assert.Equal(t, "rechnung.pdf", file.Name)
	assert.Equal(t, pdfData, file.Data)

	_, err = ocr.CheckScan(writeFile(t, dir, "empty.pdf", nil))
	assert.ErrorIs(t, err, ocr.ErrEmptyFile)

	_, err = ocr.CheckScan(writeFile(t, dir, "fake.pdf", []byte("not a pdf")))
	assert.ErrorIs(t, err, ocr.ErrUnsupportedFormat)

	_, err = ocr.CheckScan(writeFile(t, dir, "invoice.xml", xmlData))
	assert.ErrorIs(t, err, ocr.ErrUnsupportedFormat)

	_, err = ocr.CheckScan(dir)
	assert.ErrorIs(t, err, ocr.ErrNotRegularFile)

	_, err = ocr.CheckScan(filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckScan_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.pdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = f.Write(pdfData)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(ocr.MaxFileSizeBytes+1))
	require.NoError(t, f.Close())

	_, err = ocr.CheckScan(path)

	assert.ErrorIs(t, err, ocr.ErrFileTooLarge)
	var pe *ocr.PreflightError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "CheckScan", pe.Op)
	assert.Equal(t, path, pe.Path)
}

func TestCheckXML(t *testing.T) {
	dir := t.TempDir()

	file, err := ocr.CheckXML(writeFile(t, dir, "x.xml", xmlData))
	require.NoError(t, err)
	assert.Equal(t, "x.xml", file.Name)

	_, err = ocr.CheckXML(writeFile(t, dir, "x.pdf", pdfData))
	assert.ErrorIs(t, err, ocr.ErrUnsupportedFormat)
}

func TestFindScans(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.PDF", pdfData)
	writeFile(t, dir, "a.png", pngData)
	writeFile(t, dir, "notes.txt", []byte("x"))
	writeFile(t, dir, "sub/c.jpeg", jpegData)

	files, err := ocr.FindScans(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.PDF"),
		filepath.Join(dir, "sub", "c.jpeg"),
	}, files)

	_, err = ocr.FindScans(t.TempDir())
	assert.ErrorIs(t, err, ocr.ErrNoDocuments)
}
