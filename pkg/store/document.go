package store

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
)

// SaveDocument validates doc and stores it as JSON under doc.ID.
func SaveDocument(ctx context.Context, s Store, doc *docio.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := docio.WriteJSON(doc, &buf); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %s", doc.ID)
	}
	return s.Put(ctx, &Record{ID: doc.ID, Name: doc.Name, Data: buf.Bytes()})
}

// LoadDocument reads and validates the document stored under id. A
// missing document carries errors.ErrCodeDocumentNotFound.
func LoadDocument(ctx context.Context, s Store, id string) (*docio.Document, error) {
	rec, err := s.Get(ctx, id)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeDocumentNotFound, err, "document %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load document %s", id)
	}
	return docio.ReadJSON(bytes.NewReader(rec.Data))
}
