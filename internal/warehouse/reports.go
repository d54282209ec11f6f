package warehouse

import (
	"github.com/google/uuid"
	"github.com/wharfline/depot/internal/models"
)

// AddQuizReport assigns an id and prepends the report so the most recent
// run is always first. Reports are immutable once added.
func (e *Engine) AddQuizReport(report models.QuizReport) (models.QuizReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateQuizReport(report); err != nil {
		return models.QuizReport{}, err
	}

	report.ID = uuid.NewString()
	if report.CompletedAt == nil {
		report.CompletedAt = e.timestamp()
	}

	e.quizReports = append([]models.QuizReport{report}, e.quizReports...)
	if err := e.persistQuizReports(); err != nil {
		return models.QuizReport{}, err
	}
	e.publish(EventReportAdded, report.ID)
	return report, nil
}

// QuizReports returns a copy of the report list, most recent first.
func (e *Engine) QuizReports() []models.QuizReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.QuizReport, len(e.quizReports))
	copy(out, e.quizReports)
	return out
}
