// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/AaronJay30/next-hire/internal/errors"
)

// MinTextLength is the minimum number of characters (after trimming) a
// resume must yield to be considered text-based. Scanned or image-only
// PDFs fall below this and cannot be analyzed.
const MinTextLength = 50

// ExtractText extracts plain text from PDF bytes. It returns an extraction
// error when the bytes are not a readable PDF or the document yields too
// little text to analyze.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed, "empty document", nil)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed, "failed to read PDF document", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	extracted := strings.TrimSpace(sb.String())
	if err := ValidateExtractedText(extracted); err != nil {
		return "", err
	}

	return extracted, nil
}

// ValidateExtractedText checks that extracted text is substantial enough
// to analyze. Text shorter than MinTextLength usually means the PDF is a
// scan without a text layer.
func ValidateExtractedText(text string) error {
	if len(strings.TrimSpace(text)) < MinTextLength {
		return errors.NewIOError(
			errors.ErrCodeExtractionFailed,
			"could not extract enough text from the document, it may be scanned or image-based",
			nil,
		).WithContext("extracted_length", len(strings.TrimSpace(text)))
	}
	return nil
}
