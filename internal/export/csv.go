package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/models"
)

const (
	// DateFormat is the ISO-8601 date layout used in the artifact.
	DateFormat = "2006-01-02"
	// ReviewSeparator joins review dates into the single reviews_on field,
	// keeping the artifact a flat table with a fixed column count.
	ReviewSeparator = "|"
)

var header = []string{"q", "a", "learn_on", "reviews_on"}

// WriteScheduleCSV serializes the schedule to a UTF-8 CSV file at path with
// the fixed column contract q,a,learn_on,reviews_on. The header is written
// even for an empty schedule. Re-exporting the same schedule to the same
// path overwrites the file with identical content.
//
// The target directory must already exist; it is not created. On any
// failure no partial file is left at path: rows are written to a temp file
// in the same directory and renamed into place.
func WriteScheduleCSV(schedule models.Schedule, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".deck-*.csv")
	if err != nil {
		return apperrors.NewExportFailedError(path, err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return apperrors.NewExportFailedError(path, err)
	}
	for _, sc := range schedule {
		reviews := make([]string, len(sc.ReviewsOn))
		for i, r := range sc.ReviewsOn {
			reviews[i] = r.Format(DateFormat)
		}
		row := []string{
			sc.Question,
			sc.Answer,
			sc.LearnOn.Format(DateFormat),
			strings.Join(reviews, ReviewSeparator),
		}
		if err := w.Write(row); err != nil {
			return apperrors.NewExportFailedError(path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewExportFailedError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		tmp = nil
		return apperrors.NewExportFailedError(path, err)
	}
	name := tmp.Name()
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return apperrors.NewExportFailedError(path, err)
	}
	return nil
}

// ReadScheduleCSV parses an artifact back into a schedule, splitting the
// reviews_on field on the documented separator. It is the round-trip
// counterpart of WriteScheduleCSV.
func ReadScheduleCSV(path string) (models.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("artifact %s has no header row", path)
	}
	if got := strings.Join(records[0], ","); got != strings.Join(header, ",") {
		return nil, fmt.Errorf("artifact %s has unexpected header %q", path, got)
	}

	schedule := make(models.Schedule, 0, len(records)-1)
	for _, rec := range records[1:] {
		learnOn, err := time.Parse(DateFormat, rec[2])
		if err != nil {
			return nil, fmt.Errorf("invalid learn_on date %q: %w", rec[2], err)
		}
		var reviews []time.Time
		if rec[3] != "" {
			for _, part := range strings.Split(rec[3], ReviewSeparator) {
				review, err := time.Parse(DateFormat, part)
				if err != nil {
					return nil, fmt.Errorf("invalid review date %q: %w", part, err)
				}
				reviews = append(reviews, review)
			}
		}
		schedule = append(schedule, models.ScheduledCard{
			Card:      models.Card{Question: rec[0], Answer: rec[1]},
			LearnOn:   learnOn,
			ReviewsOn: reviews,
		})
	}
	return schedule, nil
}
