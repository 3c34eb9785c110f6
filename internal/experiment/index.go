package experiment

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/pipeline"
)

// IndexFile is the name of the sweep index inside the experiment directory.
const IndexFile = "index.json"

// Sample is one parameter set and the image it produced.
type Sample struct {
	Index  int             `json:"index"`
	Params pipeline.Params `json:"params"`
	File   string          `json:"file"`
	// Good is nil until the sample is judged.
	Good  *bool   `json:"good,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Judged reports whether a verdict was recorded.
func (s Sample) Judged() bool { return s.Good != nil }

// IsGood reports whether the sample was judged good.
func (s Sample) IsGood() bool { return s.Good != nil && *s.Good }

// Index describes one sweep.
type Index struct {
	Source  string       `json:"source"`
	Quad    imaging.Quad `json:"quad"`
	Samples []Sample     `json:"samples"`
}

// LoadIndex reads the index in dir.
func LoadIndex(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFound("no experiment index in %s", dir)
		}
		return nil, apperrors.IOFailure("failed to read experiment index", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, apperrors.IOFailure("failed to parse experiment index", err)
	}
	return &idx, nil
}

// SaveIndex writes idx into dir, replacing any previous index.
func SaveIndex(dir string, idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return apperrors.IOFailure("failed to encode experiment index", err)
	}
	tmp := filepath.Join(dir, IndexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.IOFailure("failed to write experiment index", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, IndexFile)); err != nil {
		os.Remove(tmp)
		return apperrors.IOFailure("failed to replace experiment index", err)
	}
	return nil
}

func setVerdict(s *Sample, good bool) {
	s.Good = &good
}
