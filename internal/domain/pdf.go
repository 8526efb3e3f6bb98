package domain

import (
	"path/filepath"
	"strings"
)

// FileKind tells the OCR stage whether a source needs page rendering first.
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindImage FileKind = "image"
)

var supportedExtensions = map[string]FileKind{
	".pdf":  FileKindPDF,
	".png":  FileKindImage,
	".jpg":  FileKindImage,
	".jpeg": FileKindImage,
}

// RenderDPI is the rasterization resolution for PDF pages (zoom 2.0 of the 72 dpi base).
const RenderDPI = 144.0

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

// IsSupportedFile reports whether the filename has a pdf/png/jpg/jpeg extension.
func IsSupportedFile(filename string) bool {
	_, ok := supportedExtensions[extension(filename)]
	return ok
}

// KindOfFile classifies a filename. Unknown extensions are treated as images.
func KindOfFile(filename string) FileKind {
	if kind, ok := supportedExtensions[extension(filename)]; ok {
		return kind
	}
	return FileKindImage
}

// IsPDF reports whether the filename indicates a PDF.
func IsPDF(filename string) bool {
	return KindOfFile(filename) == FileKindPDF
}

// ImageContentType returns the MIME type sent to the OCR provider.
func ImageContentType(filename string) string {
	switch extension(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
