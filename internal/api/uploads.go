package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentKind selects the upload endpoint for a student document.
type DocumentKind string

const (
	DocumentTranscript  DocumentKind = "transcript"
	DocumentCertificate DocumentKind = "certificate"
)

// DocumentUpload is the backend's record of a stored document.
type DocumentUpload struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// Document types the backend accepts.
var allowedDocumentExt = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadDocument sends a local file to the document store as a multipart
// form. The file type is checked before any network traffic; the server
// validates everything else. Uploads are not retried: the backend may
// have stored the document even when the response was lost.
func (c *Client) UploadDocument(
	ctx context.Context,
	kind DocumentKind,
	path string,
	description string,
) (DocumentUpload, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedDocumentExt[ext] {
		return DocumentUpload{}, fmt.Errorf(
			"unsupported file type %q (use pdf, jpg, jpeg, or png)", ext,
		)
	}

	file, err := os.Open(path)
	if err != nil {
		return DocumentUpload{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return DocumentUpload{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return DocumentUpload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := writer.WriteField("description", description); err != nil {
		return DocumentUpload{}, fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return DocumentUpload{}, fmt.Errorf("building upload form: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return DocumentUpload{}, fmt.Errorf("obtaining bearer token: %w", err)
	}

	endpoint := c.baseURL + "/api/uploads/" + string(kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return DocumentUpload{}, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DocumentUpload{}, &TransportError{
			Op:  "POST /api/uploads/" + string(kind),
			Err: err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return DocumentUpload{}, &TransportError{
			Op:  "POST /api/uploads/" + string(kind),
			Err: err,
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return DocumentUpload{}, &AuthError{Message: serverReason(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DocumentUpload{}, &ServerError{
			Status: resp.StatusCode,
			Reason: serverReason(respBody),
		}
	}

	var upload DocumentUpload
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return DocumentUpload{}, fmt.Errorf("unmarshaling upload response: %w", err)
	}
	return upload, nil
}
