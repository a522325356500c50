package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
)

// ListUsersHandler godoc
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.UserDTO
// @Router       /users [get]
func ListUsersHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewUserDTOs(users))
	}
}

// GetUserHandler godoc
// @Summary      Get user by id
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Produce      json
// @Success      200  {object}  dto.UserDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /users/{id} [get]
func GetUserHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		u, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewUserDTO(u))
	}
}

// CreateUserHandler godoc
// @Summary      Create a user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequestDTO  true  "User"
// @Success      201   {object}  dto.UserDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO
// @Router       /users [post]
func CreateUserHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateUserRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body: " + err.Error()})
			return
		}
		u, err := svc.Create(c.Request.Context(), services.CreateUserInput{
			Name:         req.Name,
			LastName:     req.LastName,
			Email:        req.Email,
			WritingStyle: req.WritingStyle,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewUserDTO(u))
	}
}

// UpdateUserHandler godoc
// @Summary      Update a user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "User ID"
// @Param        body  body      dto.UpdateUserRequestDTO  true  "Fields to change"
// @Success      200   {object}  dto.UserDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO
// @Router       /users/{id} [put]
func UpdateUserHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateUserRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid request body: " + err.Error()})
			return
		}
		u, err := svc.Update(c.Request.Context(), id, req.Patch())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewUserDTO(u))
	}
}

// DeleteUserHandler godoc
// @Summary      Delete a user
// @Description  사용자와 그 사용자가 소유한 블로그를 모두 삭제한다.
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /users/{id} [delete]
func DeleteUserHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "user deleted"})
	}
}
