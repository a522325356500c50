package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/wordpress"
)

// multipart 본문에서 첨부 파일 외 필드에 허용하는 여유분
const formOverhead = 1 << 20

var (
	errMediaTooLarge = errors.New("featured_media is too large")
	errBodyTooLarge  = errors.New("request body is too large")
)

// bindPublishBody decides the body shape from the Content-Type once. Either
// shape is capped at maxUpload+formOverhead bytes.
func bindPublishBody(c *gin.Context, maxUpload int64) (dto.PublishBody, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload+formOverhead)
	var tooLarge *http.MaxBytesError

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		var body dto.MultipartPublishBody
		if err := c.ShouldBindWith(&body, binding.FormMultipart); err != nil {
			if errors.As(err, &tooLarge) {
				return nil, errMediaTooLarge
			}
			return nil, err
		}
		return &body, nil
	}

	var body dto.JSONPublishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return &body, nil
}

// toPublishRequest normalizes either body shape into the pipeline's work order.
func toPublishRequest(body dto.PublishBody, maxUpload int64) (wordpress.PublishRequest, error) {
	switch b := body.(type) {
	case *dto.JSONPublishBody:
		return wordpress.PublishRequest{
			Title:      b.Title,
			Content:    b.Content,
			Excerpt:    b.Excerpt,
			Status:     wordpress.Status(b.Status),
			Categories: b.Categories,
			Tags:       b.Tags,
			Override:   wordpress.Credentials{User: b.WPUser, Password: b.WPPassword},
		}, nil
	case *dto.MultipartPublishBody:
		req := wordpress.PublishRequest{
			Title:      b.Title,
			Content:    b.Content,
			Excerpt:    b.Excerpt,
			Status:     wordpress.Status(b.Status),
			Categories: wordpress.ParseStringList("categories", b.Categories),
			Tags:       wordpress.ParseStringList("tags", b.Tags),
			Override:   wordpress.Credentials{User: b.WPUser, Password: b.WPPassword},
		}
		if b.FeaturedMedia != nil {
			att, err := readAttachment(b, maxUpload)
			if err != nil {
				return wordpress.PublishRequest{}, err
			}
			req.Attachment = att
		}
		return req, nil
	default:
		return wordpress.PublishRequest{}, fmt.Errorf("unsupported publish body %T", body)
	}
}

func readAttachment(b *dto.MultipartPublishBody, maxUpload int64) (*wordpress.Attachment, error) {
	fh := b.FeaturedMedia
	if fh.Size > maxUpload {
		return nil, errMediaTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open featured_media: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("read featured_media: %w", err)
	}
	if int64(len(data)) > maxUpload {
		return nil, errMediaTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &wordpress.Attachment{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
