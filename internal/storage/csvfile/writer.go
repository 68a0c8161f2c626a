package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"places_reviews/internal/domain"
	"places_reviews/internal/storage/atomicfile"
)

// Header is the column layout the front-end's bulk import expects.
var Header = []string{"author", "location", "content", "category", "rating"}

var ErrNothingToExport = domain.ErrNothingToExport

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

// Export writes header plus one row per review, UTF-8, no index column.
func (e *Exporter) Export(path string, reviews []domain.CleanedReview) error {
	if len(reviews) == 0 {
		return ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range reviews {
		row := []string{r.User, r.Location, r.ReviewText, string(r.Category), strconv.Itoa(r.Rating)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return atomicfile.Write(path, buf.Bytes())
}
