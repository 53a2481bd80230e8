package assessmentstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"sentinel/internal/domain/assessment"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Risk trend labels for the assessment history summary.
const (
	TrendIncreasing   = "increasing"
	TrendStable       = "stable"
	TrendDecreasing   = "decreasing"
	TrendInsufficient = "insufficient_data"
)

// trendThreshold is the score delta at or below which the newest and oldest
// assessments count as stable.
const trendThreshold = 10

var vendorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Summary condenses a vendor's assessment history.
type Summary struct {
	VendorID         string               `json:"vendor_id"`
	TotalAssessments int                  `json:"total_assessments"`
	LatestScore      int                  `json:"latest_score"`
	LatestLevel      assessment.RiskLevel `json:"latest_level"`
	LatestDecision   assessment.Decision  `json:"latest_decision"`
	LatestDate       string               `json:"latest_date"`
	RiskTrend        string               `json:"risk_trend"`
}

// Store persists comprehensive assessments as one JSON history file per
// vendor. Appends and reads are serialized per store instance.
type Store struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// New creates the assessment store rooted at path.
func New(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create assessments directory")
	}
	return &Store{
		path: path,
		log:  log.With("component", "assessment_store"),
	}, nil
}

func (s *Store) file(vendorID string) (string, error) {
	if !vendorIDPattern.MatchString(vendorID) {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid vendor id %q", vendorID)
	}
	return filepath.Join(s.path, vendorID+".json"), nil
}

// Save appends an assessment to the vendor's history.
func (s *Store) Save(a *assessment.ComprehensiveAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(a.VendorID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	history = append(history, *a)

	path, err := s.file(a.VendorID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode assessment history")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write assessment history")
	}

	s.log.Infow("Assessment saved", "vendor_id", a.VendorID, "total", len(history))
	return nil
}

// All returns the vendor's full assessment history, newest first.
func (s *Store) All(vendorID string) ([]assessment.ComprehensiveAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(vendorID)
	if err != nil {
		return nil, err
	}
	// History files append chronologically; callers see newest first.
	out := make([]assessment.ComprehensiveAssessment, len(history))
	for i := range history {
		out[i] = history[len(history)-1-i]
	}
	return out, nil
}

// Latest returns the most recent assessment for the vendor.
func (s *Store) Latest(vendorID string) (*assessment.ComprehensiveAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(vendorID)
	if err != nil {
		return nil, err
	}
	latest := history[len(history)-1]
	return &latest, nil
}

// Delete removes the vendor's assessment history.
func (s *Store) Delete(vendorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.file(vendorID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "no assessments for vendor %s", vendorID)
		}
		return errors.Wrap(err, "failed to delete assessment history")
	}
	return nil
}

// Summarize condenses the vendor's history into the latest result plus a risk
// trend. The trend compares the newest score against the oldest; a delta
// within the threshold counts as stable. A vendor with no history gets a
// zero-count summary rather than an error.
func (s *Store) Summarize(vendorID string) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(vendorID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &Summary{VendorID: vendorID, RiskTrend: TrendInsufficient}, nil
		}
		return nil, err
	}

	latest := history[len(history)-1]
	summary := &Summary{
		VendorID:         vendorID,
		TotalAssessments: len(history),
		LatestScore:      latest.OverallRiskScore,
		LatestLevel:      latest.OverallRiskLevel,
		LatestDecision:   latest.Decision,
		LatestDate:       latest.AnalysisDate,
		RiskTrend:        TrendInsufficient,
	}

	if len(history) >= 2 {
		oldest := history[0]
		delta := latest.OverallRiskScore - oldest.OverallRiskScore
		switch {
		case delta < -trendThreshold:
			summary.RiskTrend = TrendDecreasing
		case delta > trendThreshold:
			summary.RiskTrend = TrendIncreasing
		default:
			summary.RiskTrend = TrendStable
		}
	}
	return summary, nil
}

func (s *Store) load(vendorID string) ([]assessment.ComprehensiveAssessment, error) {
	path, err := s.file(vendorID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "no assessments for vendor %s", vendorID)
		}
		return nil, errors.Wrap(err, "failed to read assessment history")
	}

	var history []assessment.ComprehensiveAssessment
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.Wrap(err, "corrupt assessment history")
	}
	if len(history) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no assessments for vendor %s", vendorID)
	}
	return history, nil
}
