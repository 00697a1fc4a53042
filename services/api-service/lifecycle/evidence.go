package lifecycle

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Evidence struct {
	Body        io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// AttachEvidence uploads a file for the filer and records its object key.
func (e *Engine) AttachEvidence(ctx context.Context, actor models.Actor, id primitive.ObjectID, file Evidence) (*models.Complaint, error) {
	if e.objects == nil {
		return nil, apperror.Dependency(errors.New("object storage disabled"), "Attachment storage is not configured")
	}
	if file.Body == nil || file.Size <= 0 || strings.TrimSpace(file.FileName) == "" {
		return nil, apperror.Validation("A non-empty file is required")
	}

	complaint, err := e.findComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.User != actor.ID {
		return nil, apperror.Authorization("Only the filer can attach evidence")
	}
	if len(complaint.Attachments) >= maxAttachmentCount {
		return nil, apperror.Conflict("Attachment limit reached")
	}

	key, err := e.objects.Upload(ctx, file.Body, file.Size, path.Join(attachmentFolder, id.Hex()), file.FileName, file.ContentType)
	if err != nil {
		return nil, apperror.Dependency(err, "Failed to upload attachment")
	}

	updated, err := e.complaints.AddAttachment(ctx, id, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to record attachment")
	}
	return updated, nil
}

// AttachmentURLs returns download links for a complaint's attachments.
// Stored object keys are presigned; links supplied at filing pass through.
func (e *Engine) AttachmentURLs(ctx context.Context, actor models.Actor, id primitive.ObjectID) ([]string, error) {
	complaint, err := e.GetComplaint(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(complaint.Attachments))
	for _, attachment := range complaint.Attachments {
		if e.objects == nil || !strings.HasPrefix(attachment, attachmentFolder+"/") {
			urls = append(urls, attachment)
			continue
		}
		url, err := e.objects.PresignedURL(ctx, attachment, attachmentURLTTL)
		if err != nil {
			return nil, apperror.Dependency(err, "Failed to sign attachment URL")
		}
		urls = append(urls, url)
	}
	return urls, nil
}
