package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jonathan/talent-console/internal/schemas"
	"github.com/jonathan/talent-console/internal/types"
)

// EvaluationRequest is one batch for the evaluation endpoint.
type EvaluationRequest struct {
	Message string
	Files   []types.FilePayload
	JobID   *int64
}

// Evaluate submits a batch of resumes (and/or a chat message) in one
// multipart request. Every file goes under the same "resume" field.
func (c *Client) Evaluate(ctx context.Context, req EvaluationRequest) (*types.EvaluationResponse, error) {
	form := newForm()
	if req.Message != "" {
		form.field(FieldMessage, req.Message)
	}
	for _, f := range req.Files {
		form.file(FieldResume, f)
	}
	if req.JobID != nil {
		form.field(FieldJobID, strconv.FormatInt(*req.JobID, 10))
	}
	body, contentType, err := form.close()
	if err != nil {
		return nil, &Error{Method: http.MethodPost, Path: PathEvaluate, Message: "failed to encode form", Cause: err}
	}

	payload, err := c.do(ctx, http.MethodPost, PathEvaluate, contentType, body)
	if err != nil {
		return nil, err
	}

	var out types.EvaluationResponse
	if err := c.decode(http.MethodPost, PathEvaluate, schemas.EvaluationResponse, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmail posts a composed message with its attachments.
func (c *Client) SendEmail(ctx context.Context, draft types.EmailDraft) error {
	form := newForm()
	form.field("to", draft.To)
	form.field("cc", draft.CC)
	form.field("bcc", draft.BCC)
	form.field("subject", draft.Subject)
	form.field(FieldMessage, draft.Message)
	for _, f := range draft.Attachments {
		form.file(FieldAttachments, f)
	}
	body, contentType, err := form.close()
	if err != nil {
		return &Error{Method: http.MethodPost, Path: PathSendEmail, Message: "failed to encode form", Cause: err}
	}

	_, err = c.do(ctx, http.MethodPost, PathSendEmail, contentType, body)
	return err
}

// formBuilder accumulates multipart parts and remembers the first error.
type formBuilder struct {
	buf *bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *formBuilder {
	buf := &bytes.Buffer{}
	return &formBuilder{buf: buf, w: multipart.NewWriter(buf)}
}

func (f *formBuilder) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *formBuilder) file(field string, payload types.FilePayload) {
	if f.err != nil {
		return
	}
	part, err := f.w.CreateFormFile(field, payload.Name)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(payload.Content)
}

func (f *formBuilder) close() (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return f.buf, f.w.FormDataContentType(), nil
}
