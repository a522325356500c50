package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"wp-dispatch/cmd/api/dto"
	"wp-dispatch/cmd/api/services"
	"wp-dispatch/logger"
)

const maxWebhookBytes = 1 << 20

// identityEvent is the subset of the identity provider's user webhook we read.
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (e identityEvent) user() services.ExternalUser {
	u := services.ExternalUser{
		ID:        e.Data.ID,
		FirstName: e.Data.FirstName,
		LastName:  e.Data.LastName,
	}
	if len(e.Data.EmailAddresses) > 0 {
		u.Email = e.Data.EmailAddresses[0].EmailAddress
	}
	return u
}

// IdentityWebhookHandler godoc
// @Summary      Identity provider user webhook
// @Description  svix 서명을 검증한 뒤 user.created / user.updated / user.deleted 를 로컬 사용자에 반영한다.
// @Description  저장 실패는 로그만 남기고 성공으로 응답한다.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.WebhookAckDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /webhooks [post]
func IdentityWebhookHandler(users *services.UserService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			logger.Log.Error("webhook signing secret is not configured")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "webhook secret is not configured"})
			return
		}
		for _, h := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
			if c.GetHeader(h) == "" {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "missing svix headers"})
				return
			}
		}

		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "cannot read body"})
			return
		}

		wh, err := svix.NewWebhook(secret)
		if err != nil {
			logger.ErrorWithFields("invalid webhook signing secret", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "webhook secret is invalid"})
			return
		}
		if err := wh.Verify(payload, c.Request.Header); err != nil {
			logger.WarnWithFields("webhook verification failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "webhook verification failed"})
			return
		}

		var evt identityEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid webhook payload"})
			return
		}

		ctx := c.Request.Context()
		fields := logger.Fields{"event_type": evt.Type, "external_id": evt.Data.ID}
		switch evt.Type {
		case "user.created", "user.updated":
			if _, err := users.SyncExternal(ctx, evt.user()); err != nil {
				fields["error"] = err.Error()
				logger.ErrorWithFields("webhook user sync failed", fields)
			}
		case "user.deleted":
			if err := users.DeleteExternal(ctx, evt.Data.ID); err != nil {
				fields["error"] = err.Error()
				logger.WarnWithFields("webhook user delete failed", fields)
			}
		default:
			logger.DebugWithFields("webhook event ignored", fields)
		}

		c.JSON(http.StatusOK, dto.WebhookAckDTO{Success: true})
	}
}
