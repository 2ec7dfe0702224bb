package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const (
	mimePNG  = "image/png"
	mimePDF  = "application/pdf"
	mimeHEIC = "image/heic"
)

// heicBrands are the ftyp brands written by HEIC/HEIF encoders
var heicBrands = map[string]bool{"heic": true, "heix": true, "heif": true, "mif1": true, "msf1": true}

// detectMimeType returns a normalized MIME type for an upload. The declared type
// wins unless it is missing or generic, in which case the bytes are sniffed.
func detectMimeType(data []byte, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if hasHEICBrand(data) {
		return mimeHEIC
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}

func hasHEICBrand(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	return heicBrands[string(data[8:12])]
}

// toPNG renders the upload as a single PNG image. Receipts are a single page,
// so only the first page of a PDF is used.
func toPNG(data []byte, contentType string) ([]byte, error) {
	mimeType := detectMimeType(data, contentType)

	var (
		img image.Image
		err error
	)
	switch {
	case mimeType == mimePNG:
		return data, nil
	case mimeType == mimePDF:
		img, err = renderFirstPage(data)
	case mimeType == mimeHEIC || mimeType == "image/heif":
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	case strings.HasPrefix(mimeType, "image/"):
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding %s image: %w", mimeType, err)
		}
	default:
		return nil, fmt.Errorf("unsupported content type %q: supported formats are JPEG, PNG, GIF, HEIC, HEIF and PDF", mimeType)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func renderFirstPage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}
