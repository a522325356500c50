package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
)

// UploadMedia sends att to the media endpoint and returns the new media id.
// A rejected upload or a response without an id is a KindMediaUpload error.
func (c *Client) UploadMedia(ctx context.Context, endpoint, authHeader string, att Attachment) (int64, error) {
	body, contentType, err := encodeAttachment(att)
	if err != nil {
		return 0, &Error{Kind: KindMediaUpload, Stage: StageUploading, Message: "could not encode attachment", Err: err}
	}

	resp, err := c.send(ctx, StageUploading, outgoing{
		method:      http.MethodPost,
		url:         endpoint,
		auth:        authHeader,
		contentType: contentType,
		body:        body,
	})
	if err != nil {
		return 0, err
	}
	if !resp.ok() {
		return 0, remoteError(KindMediaUpload, StageUploading, "WordPress rejected the featured image", resp)
	}

	var media struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(resp.body, &media); err != nil || media.ID == 0 {
		return 0, &Error{
			Kind:    KindMediaUpload,
			Stage:   StageUploading,
			Status:  resp.status,
			Message: "media response did not include an id",
			Details: readFailureDetail(resp).details,
			Err:     err,
		}
	}
	return media.ID, nil
}

func encodeAttachment(att Attachment) ([]byte, string, error) {
	filename := filepath.Base(att.Filename)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		filename = "featured-media"
	}
	contentType := att.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(att.Data)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(att.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
