package scanning

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// pdfToImage converts a PDF to a PNG image
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	// Render the first page (cards scanned to PDF are single page)
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	// Encode as PNG
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// imageToPNG converts any image format to PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	// Check for HEIC/HEIF format (common on iPhones) - Go's standard image package doesn't support it
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		// Use pure Go HEIC decoder
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		// Decode standard image formats (JPEG, PNG, GIF)
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			// Provide more helpful error message for unsupported formats
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	// Encode as PNG
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
// HEIC files typically start with specific magic bytes
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// HEIC files can start with various signatures:
	// - ftyp box with brand 'heic', 'heif', 'mif1', 'msf1'
	// Check for ftyp at offset 4
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		// Check for HEIC-related brands
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == "image/heic" || mimeType == "image/heif" ||
		strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// convertToPNG converts PDFs and non-PNG images to PNG format
// Returns the PNG data and a boolean indicating if conversion occurred
func convertToPNG(imageData []byte, mimeType string) ([]byte, bool, error) {
	if mimeType == "application/pdf" {
		pngData, err := pdfToImage(imageData)
		if err != nil {
			return nil, false, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, true, nil
	} else if mimeType != "image/png" || isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		// Convert all non-PNG images (including HEIC) to PNG
		pngData, err := imageToPNG(imageData, mimeType)
		if err != nil {
			return nil, false, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, true, nil
	}
	// Already PNG, return as-is
	return imageData, false, nil
}

// prepareImageData normalizes the MIME type and converts the image to PNG if needed
// Returns the final image data, the MIME type to use, and whether conversion occurred
func prepareImageData(imageData []byte, contentType string) ([]byte, string, bool, error) {
	// Normalize MIME type (lowercase, trim whitespace)
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg" // default
	}

	// Convert to PNG if needed
	finalImageData, converted, err := convertToPNG(imageData, mimeType)
	if err != nil {
		return nil, "", false, err
	}

	// After prepareImageData, the data is always PNG (either converted or already PNG)
	// So we always return "image/png" as the MIME type
	finalMimeType := "image/png"

	return finalImageData, finalMimeType, converted, nil
}

// DecodeDataURL splits a browser data URL (data:image/jpeg;base64,...) into
// raw image bytes and the declared MIME type. Camera captures arrive in this
// form; OCR engines must only ever see the decoded bytes, never the prefix.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", fmt.Errorf("not a data URL")
	}

	meta, payload, found := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data URL: missing payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL encoding, expected base64")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding data URL payload: %w", err)
	}

	return data, mimeType, nil
}
