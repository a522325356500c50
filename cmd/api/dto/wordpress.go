package dto

import (
	"bytes"
	"encoding/json"
	"mime/multipart"

	"wp-dispatch/wordpress"
)

// StringList accepts either a JSON array of strings or a string holding a
// JSON-encoded array, e.g. "[\"news\",\"go\"]".
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*l = wordpress.ParseStringList("list", raw)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// PublishBody 는 발행 요청 바디의 두 형태(JSONPublishBody, MultipartPublishBody) 중 하나이다.
// 형태는 Content-Type 으로 경계에서 한 번만 결정된다.
type PublishBody interface {
	publishBody()
}

// JSONPublishBody 는 application/json 발행 요청 바디이다. 첨부 이미지는 받을 수 없다.
type JSONPublishBody struct {
	Title      string     `json:"title" example:"Hello WordPress"`
	Content    string     `json:"content" example:"<p>Body</p>"`
	Excerpt    string     `json:"excerpt"`
	Status     string     `json:"status" example:"draft" enums:"draft,publish,pending-review"`
	Categories StringList `json:"categories" swaggertype:"array,string"`
	Tags       StringList `json:"tags" swaggertype:"array,string"`
	WPUser     string     `json:"wp_user"`
	WPPassword string     `json:"wp_password"`
}

// MultipartPublishBody 는 multipart/form-data 발행 요청 바디이다.
// categories/tags 는 JSON 으로 인코딩된 문자열 배열이다.
type MultipartPublishBody struct {
	Title         string                `form:"title"`
	Content       string                `form:"content"`
	Excerpt       string                `form:"excerpt"`
	Status        string                `form:"status"`
	Categories    string                `form:"categories"`
	Tags          string                `form:"tags"`
	WPUser        string                `form:"wp_user"`
	WPPassword    string                `form:"wp_password"`
	FeaturedMedia *multipart.FileHeader `form:"featured_media" swaggerignore:"true"`
}

func (*JSONPublishBody) publishBody()      {}
func (*MultipartPublishBody) publishBody() {}

// PublishResponseDTO 는 발행 성공 응답이다.
type PublishResponseDTO struct {
	ID     int64  `json:"id" example:"123"`
	Link   string `json:"link" example:"https://myblog.org/?p=123"`
	Status string `json:"status" example:"draft"`
}

// DiagnosticsResponseDTO 는 GET /wordpress/diagnostics/{id} 응답이다.
type DiagnosticsResponseDTO struct {
	BlogID int64 `json:"blog_id" example:"1"`
	wordpress.Diagnosis
}

// ProbeResponseDTO 는 GET /wordpress/test/{id} 응답이다.
type ProbeResponseDTO struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message" example:"Connection to WordPress succeeded"`
	Site    wordpress.ProbeResult `json:"site"`
}

type ExtractFaviconRequestDTO struct {
	URL string `json:"url" example:"https://go.dev"`
}

type ExtractFaviconResponseDTO struct {
	Favicon string `json:"favicon" example:"https://go.dev/favicon.ico"`
}
