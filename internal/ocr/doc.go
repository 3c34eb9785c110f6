// Package ocr scores how legible a filtered board is, using the Tesseract OCR
// engine through gosseract/v2.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Scoring
//
// Score writes the buffer to a temporary PNG, recognizes it at word level and
// reports the mean word confidence. The experiment harness uses it to judge
// parameter samples without an operator. A binarized board with no readable
// words scores 0.
package ocr
