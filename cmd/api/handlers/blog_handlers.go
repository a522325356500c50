package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/auth"
	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
)

// ListBlogsHandler godoc
// @Summary      List blogs
// @Tags         blogs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.BlogDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blogs, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTOs(blogs))
	}
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Tags         blogs
// @Security     BearerAuth
// @Param        id   path  int  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  dto.BlogDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		b, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTO(b))
	}
}

// CreateBlogHandler godoc
// @Summary      Register a blog
// @Description  api_url 은 입력한 그대로 저장되며, favicon 이 비어 있으면 사이트에서 찾아 채운다.
// @Tags         blogs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateBlogRequestDTO  true  "Blog"
// @Success      201   {object}  dto.BlogDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /blogs [post]
func CreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateBlogRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body: " + err.Error()})
			return
		}
		b, err := svc.Create(c.Request.Context(), services.CreateBlogInput{
			Name:     req.Name,
			APIURL:   req.APIURL,
			WPUser:   req.WPUser,
			APIKey:   req.APIKey,
			Favicon:  req.Favicon,
			Topic:    req.Topic,
			Keywords: req.Keywords,
			OwnerID:  req.OwnerID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewBlogDTO(b))
	}
}

// UpdateBlogHandler godoc
// @Summary      Update a blog
// @Description  Partial update; omitted fields are kept.
// @Tags         blogs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Blog ID"
// @Param        body  body      dto.UpdateBlogRequestDTO  true  "Fields to change"
// @Success      200   {object}  dto.BlogDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [put]
func UpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateBlogRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body: " + err.Error()})
			return
		}
		b, err := svc.Update(c.Request.Context(), id, req.Patch())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTO(b))
	}
}

// DeleteBlogHandler godoc
// @Summary      Delete a blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        id   path  int  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [delete]
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "blog deleted"})
	}
}

// ListUserBlogsHandler godoc
// @Summary      List blogs of a user
// @Tags         blogs
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Produce      json
// @Success      200  {array}   dto.BlogDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /users/{id}/blogs [get]
func ListUserBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		blogs, err := svc.ListByOwner(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTOs(blogs))
	}
}

// ListMyBlogsHandler godoc
// @Summary      List blogs of the signed-in user
// @Description  세션 토큰의 sub(external id)로 로컬 사용자를 찾아 그 사용자의 블로그를 반환한다.
// @Tags         blogs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.BlogDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /me/blogs [get]
func ListMyBlogsHandler(users *services.UserService, blogs *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := auth.SubjectFromContext(c)
		if !ok {
			auth.AbortWithUnauthorized(c, auth.ErrMissingHeader)
			return
		}
		u, err := users.GetByExternalID(c.Request.Context(), sub)
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := blogs.ListByOwner(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTOs(list))
	}
}
