package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
)

// WordPressStatusHandler godoc
// @Summary      WordPress API status
// @Tags         wordpress
// @Produce      json
// @Success      200  {object}  dto.StatusResponseDTO
// @Router       /wordpress [get]
func WordPressStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.StatusResponseDTO{Status: "ok", Message: "WordPress API is up"})
	}
}

// PublishPostHandler godoc
// @Summary      Publish a post to a blog
// @Description  JSON 또는 multipart/form-data 를 받는다. multipart 의 featured_media 이미지는 글보다 먼저 업로드되어 대표 이미지로 연결된다.
// @Description  wp_user / wp_password 가 주어지면 저장된 자격 증명보다 우선한다.
// @Tags         wordpress
// @Security     BearerAuth
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        id              path      int                  true   "Blog ID"
// @Param        body            body      dto.JSONPublishBody  false  "Post (JSON)"
// @Param        featured_media  formData  file                 false  "Featured image (multipart)"
// @Success      201  {object}  dto.PublishResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      413  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Failure      504  {object}  dto.ErrorResponseDTO
// @Router       /wordpress/posts/{id} [post]
func PublishPostHandler(svc *services.PublishService, maxUpload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		body, err := bindPublishBody(c, maxUpload)
		if err != nil {
			respondBodyError(c, err, maxUpload)
			return
		}
		req, err := toPublishRequest(body, maxUpload)
		if err != nil {
			respondBodyError(c, err, maxUpload)
			return
		}

		result, err := svc.Publish(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.PublishResponseDTO{ID: result.ID, Link: result.Link, Status: result.Status})
	}
}

func respondBodyError(c *gin.Context, err error, maxUpload int64) {
	switch {
	case errors.Is(err, errMediaTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{
			Error: fmt.Sprintf("featured_media exceeds the %d byte limit", maxUpload),
		})
		return
	case errors.Is(err, errBodyTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{
			Error: fmt.Sprintf("request body exceeds the %d byte limit", maxUpload+formOverhead),
		})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body: " + err.Error()})
}

// TestConnectionHandler godoc
// @Summary      Test the connection to a blog
// @Description  GET {api_url}/wp-json 로 설정을 확인한다. 글은 생성하지 않는다.
// @Tags         wordpress
// @Security     BearerAuth
// @Param        id   path  int  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  dto.ProbeResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /wordpress/test/{id} [get]
func TestConnectionHandler(svc *services.PublishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		result, err := svc.Probe(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ProbeResponseDTO{
			Success: true,
			Message: "Connection to WordPress succeeded",
			Site:    *result,
		})
	}
}

// DiagnosticsHandler godoc
// @Summary      Diagnose a blog's WordPress settings
// @Description  네트워크 호출 없이 저장된 설정이 어떻게 사용될지 보고한다.
// @Tags         wordpress
// @Security     BearerAuth
// @Param        id   path  int  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  dto.DiagnosticsResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /wordpress/diagnostics/{id} [get]
func DiagnosticsHandler(svc *services.PublishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		b, diag, err := svc.Diagnose(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.DiagnosticsResponseDTO{BlogID: b.ID, Diagnosis: diag})
	}
}
