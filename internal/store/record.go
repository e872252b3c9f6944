package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/semverlint/internal/lint"
)

// generateID mirrors the teacher's random-hex identifier scheme, with
// the same timestamp fallback if the CSPRNG is unavailable.
func generateID(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(buf))
}

// RecordRun persists a completed run and its findings in one
// transaction, returning the generated run ID.
func RecordRun(db *gorm.DB, baselineVersion, currentVersion string, findings []lint.Finding, summary lint.Summary, startedAt, finishedAt time.Time) (string, error) {
	run := &Run{
		ID:              generateID("run"),
		BaselineVersion: baselineVersion,
		CurrentVersion:  currentVersion,
		HighestUpdate:   summary.HighestUpdate.String(),
		TotalFindings:   summary.TotalFindings,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		for _, f := range findings {
			bindingsJSON, err := json.Marshal(f.Bindings)
			if err != nil {
				return fmt.Errorf("failed to marshal finding bindings: %w", err)
			}
			rec := &FindingRecord{
				RunID:          run.ID,
				LintID:         f.LintID,
				RequiredUpdate: f.RequiredUpdate.String(),
				Message:        f.Message,
				Bindings:       datatypes.JSON(bindingsJSON),
			}
			if err := tx.Create(rec).Error; err != nil {
				return fmt.Errorf("failed to record finding: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// PriorFindingCount returns how many times lintID fired across all
// past runs, letting a host flag a newly-noisy lint.
func PriorFindingCount(db *gorm.DB, lintID string) (int64, error) {
	var count int64
	err := db.Model(&FindingRecord{}).Where("lint_id = ?", lintID).Count(&count).Error
	return count, err
}
