package service

import (
	"context"
	"fmt"

	"blinds-backend/internal/costing"
	"blinds-backend/internal/document"
	"blinds-backend/internal/model"
	"blinds-backend/internal/render"
	"blinds-backend/internal/repository"

	"go.uber.org/zap"
)

// DocumentFile is a rendered document ready to send.
type DocumentFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type DocumentService interface {
	Generate(ctx context.Context, jobID, kind string) (DocumentFile, error)
}

type documentService struct {
	jobRepo  repository.JobRepository
	profiles ProfileService
	composer *document.Composer
	renderer *render.PDF
	recorder recorder
	logger   *zap.Logger
}

func NewDocumentService(
	jobRepo repository.JobRepository,
	activityRepo repository.ActivityRepository,
	profiles ProfileService,
	composer *document.Composer,
	renderer *render.PDF,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		jobRepo:  jobRepo,
		profiles: profiles,
		composer: composer,
		renderer: renderer,
		recorder: newRecorder(jobRepo, activityRepo, nil),
		logger:   logger.Named("document_service"),
	}
}

// Generate prices the job as it stands now and renders the requested document.
func (s *documentService) Generate(ctx context.Context, jobID, kind string) (DocumentFile, error) {
	k, err := document.ParseKind(kind)
	if err != nil {
		return DocumentFile{}, err
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return DocumentFile{}, err
	}
	profile, err := s.profiles.Current(ctx)
	if err != nil {
		return DocumentFile{}, err
	}

	var breakdown *costing.Breakdown
	if k != document.KindEnvelope {
		b, err := costing.Compute(job)
		if err != nil {
			return DocumentFile{}, fmt.Errorf("failed to price job %s: %w", jobID, err)
		}
		breakdown = &b
	}

	doc, err := s.composer.Compose(k, job, breakdown, profile)
	if err != nil {
		return DocumentFile{}, err
	}
	content, err := s.renderer.RenderBytes(doc)
	if err != nil {
		return DocumentFile{}, fmt.Errorf("failed to render %s: %w", k, err)
	}

	// history only; a failed write must not cost the user their document
	if err := s.recorder.logActivity(ctx, jobID, model.ActionGenerateDocument, jobID, map[string]string{"kind": string(k)}); err != nil {
		s.logger.Warn("failed to record document generation", zap.String("job_id", jobID), zap.Error(err))
	}

	return DocumentFile{
		Filename:    render.Filename(k, job.ID),
		ContentType: render.ContentType,
		Content:     content,
	}, nil
}
