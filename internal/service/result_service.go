package service

import (
	"github.com/parsecv/api/internal/model"
)

// ResultService assembles the structured record returned for a completed
// document. The parsed content itself is the fixed demo payload the upstream
// parser ships; no extraction happens here. Field order matters: exports
// serialize the record in exactly this order.
type ResultService struct{}

func NewResultService() *ResultService {
	return &ResultService{}
}

// Build returns the export record for one document.
func (s *ResultService) Build(doc model.Document, confidence float64) *model.Record {
	return model.NewRecord().
		Set("documentId", doc.ID).
		Set("fileName", doc.Name).
		Set("status", string(model.StatusCompleted)).
		Set("confidenceScore", confidence).
		Set("personalInfo", model.NewRecord().
			Set("name", "John Smith").
			Set("email", "john.smith@email.com").
			Set("phone", "+1-555-123-4567").
			Set("location", "San Francisco, CA")).
		Set("contactInfo", model.NewRecord().
			Set("linkedin", "https://linkedin.com/in/johnsmith").
			Set("github", "https://github.com/johnsmith").
			Set("website", "https://johnsmith.dev")).
		Set("professionalSummary", "Senior Software Engineer with 8+ years of experience...").
		Set("workExperience", []any{
			model.NewRecord().
				Set("jobTitle", "Senior Software Engineer").
				Set("company", "Tech Corp").
				Set("startDate", "2020-01").
				Set("endDate", "present").
				Set("durationMonths", 48.0).
				Set("confidence", 0.95),
		}).
		Set("skills", model.NewRecord().
			Set("technical", []any{"Python", "React", "AWS"}).
			Set("soft", []any{"Leadership", "Communication"})).
		Set("entities", []any{
			model.NewRecord().
				Set("type", "PERSON").
				Set("value", "John Smith").
				Set("confidence", 0.99),
		})
}
