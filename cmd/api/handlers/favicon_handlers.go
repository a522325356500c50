package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
)

// ExtractFaviconHandler godoc
// @Summary      Resolve a site's favicon
// @Description  항상 아이콘 URL 을 반환한다. 찾지 못하면 favicon 서비스 URL 로 대체한다.
// @Tags         utils
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ExtractFaviconRequestDTO  true  "Site URL"
// @Success      200   {object}  dto.ExtractFaviconResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /utils/extract-favicon [post]
func ExtractFaviconHandler(resolver services.FaviconResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ExtractFaviconRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "url is required"})
			return
		}
		c.JSON(http.StatusOK, dto.ExtractFaviconResponseDTO{
			Favicon: resolver.Resolve(c.Request.Context(), req.URL),
		})
	}
}
