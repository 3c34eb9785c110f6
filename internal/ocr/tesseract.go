package ocr

import (
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognized word with its location and confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result contains the outcome of recognizing one image.
type Result struct {
	// Text is all recognized text with original spacing and newlines.
	Text string `json:"text"`

	// Words may be empty if bounding box extraction fails; Text is still set.
	Words []Word `json:"words"`

	// Confidence is the mean word confidence, 0 when no word was found.
	Confidence float64 `json:"confidence"`
}

// Recognize runs Tesseract on the image at imagePath.
//
// Word-level results use Tesseract's RIL_WORD iterator level. Empty words are
// filtered out. If bounding box extraction fails (which can happen with some
// Tesseract configurations), the full text is still returned with no words
// and zero confidence.
func Recognize(imagePath string, language string) (*Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, apperrors.IOFailure("failed to set OCR language "+language, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, apperrors.IOFailure("failed to set OCR image", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, apperrors.IOFailure("OCR failed", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{Text: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{
		Text:       text,
		Words:      words,
		Confidence: meanConfidence(words),
	}, nil
}

// Score recognizes a filtered board and reports how legible it is.
//
// Tesseract needs a file, so the buffer is written to a temporary PNG that is
// removed afterwards.
func Score(buf *imaging.Buffer, language string) (*Result, error) {
	tmp, err := os.CreateTemp("", "board-ocr-*.png")
	if err != nil {
		return nil, apperrors.IOFailure("failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := buf.Save(tmpPath); err != nil {
		return nil, err
	}
	return Recognize(tmpPath, language)
}

func meanConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	c := make([]float64, len(words))
	for i, w := range words {
		c[i] = w.Confidence
	}
	return stat.Mean(c, nil)
}
