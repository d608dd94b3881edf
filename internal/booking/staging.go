package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// DocumentBasePath is the fixed two-segment prefix under which all booking
// documents are stored.
const DocumentBasePath = "bookings/documents"

// MaxDocumentSize mirrors the blob store's 5 MB cap so oversized files are
// rejected before any network call.
const MaxDocumentSize = 5 * 1024 * 1024

// DocumentContentType is the only accepted upload type.
const DocumentContentType = "application/pdf"

// Transfer performs presigned blob transfers. Satisfied by
// blobstore.Client.
type Transfer interface {
	Upload(ctx context.Context, path string, content io.Reader) error
	Delete(ctx context.Context, path string) error
}

// FileInput is a file selected in the form but not yet uploaded.
type FileInput struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Staging manages the documents uploaded for a single in-progress booking
// form: the general staged list, the single pre-auth slot, and the pending
// name/file inputs that have not been confirmed with "Add" yet.
//
// Staging is not safe for concurrent use; a draft has exactly one mutator.
type Staging struct {
	transfer Transfer
	now      func() time.Time

	docs        []StagedDocument
	preAuth     *StagedDocument
	pendingName string
	pendingFile *FileInput
}

func NewStaging(transfer Transfer) *Staging {
	return &Staging{transfer: transfer, now: time.Now}
}

// WithClock overrides the clock used to mint document paths. Used in tests.
func (s *Staging) WithClock(now func() time.Time) *Staging {
	s.now = now
	return s
}

// SetPendingName records the typed document name before it is confirmed.
func (s *Staging) SetPendingName(name string) { s.pendingName = name }

// SetPendingFile records the selected file before it is confirmed.
func (s *Staging) SetPendingFile(file *FileInput) { s.pendingFile = file }

// HasPendingInput reports whether a document add was started but never
// confirmed. Submission is refused while this holds.
func (s *Staging) HasPendingInput() bool {
	return s.pendingName != "" || s.pendingFile != nil
}

// Documents returns a copy of the staged list.
func (s *Staging) Documents() []StagedDocument {
	out := make([]StagedDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// PreAuth returns a copy of the staged pre-auth document, or nil.
func (s *Staging) PreAuth() *StagedDocument {
	if s.preAuth == nil {
		return nil
	}
	doc := *s.preAuth
	return &doc
}

// Empty reports whether nothing is staged.
func (s *Staging) Empty() bool {
	return len(s.docs) == 0 && s.preAuth == nil
}

// mintPath returns a fresh time-based remote path. Every upload mints a new
// one, so duplicate remote paths cannot occur within a form session.
func (s *Staging) mintPath() string {
	return fmt.Sprintf("%s/Booking-Docs-%d.pdf", DocumentBasePath, s.now().UnixMilli())
}

func checkFile(file *FileInput) error {
	if file.ContentType != DocumentContentType {
		return &ValidationError{Field: "document_file", Message: "only PDF documents are accepted"}
	}
	if file.Size > MaxDocumentSize {
		return &ValidationError{Field: "document_file", Message: "document exceeds the 5 MB limit"}
	}
	return nil
}

// AddDocument uploads the pending file under the pending name and appends
// it to the staged list. The pending inputs are cleared only on success; a
// failed transfer leaves them intact and stages nothing.
func (s *Staging) AddDocument(ctx context.Context) error {
	if s.pendingName == "" || s.pendingFile == nil {
		return &ValidationError{Field: "document", Message: "missing name or file"}
	}
	if err := checkFile(s.pendingFile); err != nil {
		return err
	}

	path := s.mintPath()
	if err := s.transfer.Upload(ctx, path, s.pendingFile.Content); err != nil {
		return err
	}

	s.docs = append(s.docs, StagedDocument{FileName: s.pendingName, FilePath: path})
	s.pendingName = ""
	s.pendingFile = nil
	return nil
}

// AddPreAuth uploads the mandatory pre-authorization document into its
// dedicated slot. Exactly one may be staged; remove the current one first
// to replace it.
func (s *Staging) AddPreAuth(ctx context.Context, file *FileInput) error {
	if file == nil {
		return &ValidationError{Field: "pre_auth_document", Message: "missing file"}
	}
	if s.preAuth != nil {
		return &ValidationError{Field: "pre_auth_document", Message: "pre-auth document already uploaded"}
	}
	if err := checkFile(file); err != nil {
		return err
	}

	path := s.mintPath()
	if err := s.transfer.Upload(ctx, path, file.Content); err != nil {
		return err
	}

	s.preAuth = &StagedDocument{FileName: PreAuthDocName, FilePath: path}
	return nil
}

// RemoveDocument deletes the remote object and, only once the delete is
// confirmed, drops the entry from the staged list. A failed delete keeps
// the entry so the pointer to the remote object is never silently lost.
func (s *Staging) RemoveDocument(ctx context.Context, filePath string) error {
	idx := -1
	for i, doc := range s.docs {
		if doc.FilePath == filePath {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &ValidationError{Field: "document", Message: "document is not staged"}
	}

	if err := s.transfer.Delete(ctx, filePath); err != nil {
		return err
	}

	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	return nil
}

// RemovePreAuth deletes the staged pre-auth document remotely and clears
// the slot on confirmed deletion.
func (s *Staging) RemovePreAuth(ctx context.Context) error {
	if s.preAuth == nil {
		return &ValidationError{Field: "pre_auth_document", Message: "no pre-auth document staged"}
	}
	if err := s.transfer.Delete(ctx, s.preAuth.FilePath); err != nil {
		return err
	}
	s.preAuth = nil
	return nil
}

// DiscardAll deletes every still-staged document, one at a time, in staging
// order with the pre-auth slot last. Deletion continues past individual
// failures; failed entries stay staged and the collected errors are
// returned after the full sweep.
func (s *Staging) DiscardAll(ctx context.Context) error {
	var errs []error

	var kept []StagedDocument
	for _, doc := range s.docs {
		if err := s.transfer.Delete(ctx, doc.FilePath); err != nil {
			errs = append(errs, fmt.Errorf("discard %s: %w", doc.FileName, err))
			kept = append(kept, doc)
		}
	}
	s.docs = kept

	if s.preAuth != nil {
		if err := s.transfer.Delete(ctx, s.preAuth.FilePath); err != nil {
			errs = append(errs, fmt.Errorf("discard %s: %w", s.preAuth.FileName, err))
		} else {
			s.preAuth = nil
		}
	}

	return errors.Join(errs...)
}

// MergedDocuments returns the full document list for submission: the staged
// documents in order, with the pre-auth document appended last.
func (s *Staging) MergedDocuments() []StagedDocument {
	merged := make([]StagedDocument, 0, len(s.docs)+1)
	merged = append(merged, s.docs...)
	if s.preAuth != nil {
		merged = append(merged, *s.preAuth)
	}
	return merged
}

// ReleaseAll clears the staged state without issuing deletes. Called after
// a successful submission, when ownership of the remote objects transfers
// to the persisted booking record.
func (s *Staging) ReleaseAll() {
	s.docs = nil
	s.preAuth = nil
	s.pendingName = ""
	s.pendingFile = nil
}
