package experiment

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// Review shows every unjudged sample and records the operator's verdict:
// Space marks a sample good, any other key bad. Verdicts are saved even when
// the operator quits part way; completed reports whether every sample was
// judged.
func Review(ctx context.Context, bridge *events.Bridge, dir string, idx *Index, maxW, maxH int, log logrus.FieldLogger) (bool, error) {
	completed, runErr := bridge.Run(ctx, func(ctx context.Context) error {
		for i := range idx.Samples {
			s := &idx.Samples[i]
			if s.Judged() {
				continue
			}

			buf, err := imaging.FromFile(filepath.Join(dir, s.File))
			if err != nil {
				return err
			}
			if _, err := buf.ScaleBounded(maxW, maxH); err != nil {
				return err
			}
			if err := bridge.Show(buf); err != nil {
				return err
			}

			k, err := bridge.Keypress(ctx)
			if err != nil {
				return err
			}
			setVerdict(s, k == events.KeySpace)
			log.WithFields(logrus.Fields{"file": s.File, "good": *s.Good}).Debug("sample judged")
		}
		return nil
	})

	if err := SaveIndex(dir, idx); err != nil {
		return false, err
	}
	return completed, runErr
}

// Scorer rates the legibility of a filtered board between 0 and 1.
type Scorer func(buf *imaging.Buffer) (float64, error)

// AutoJudge scores every sample and marks those reaching threshold as good.
// Existing verdicts are overwritten. The index is saved afterwards.
func AutoJudge(ctx context.Context, dir string, idx *Index, score Scorer, threshold float64, log logrus.FieldLogger) error {
	for i := range idx.Samples {
		if err := ctx.Err(); err != nil {
			break
		}
		s := &idx.Samples[i]

		buf, err := imaging.FromFile(filepath.Join(dir, s.File))
		if err != nil {
			return err
		}
		v, err := score(buf)
		if err != nil {
			return err
		}
		s.Score = v
		setVerdict(s, v >= threshold)
		log.WithFields(logrus.Fields{"file": s.File, "score": v, "good": *s.Good}).Debug("sample scored")
	}
	return SaveIndex(dir, idx)
}
