package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
// WordPress 호출 실패 시 details 에 원격 응답 본문, status 에 원격 HTTP 상태가 담긴다.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"WordPress rejected the post"`
	Details string `json:"details,omitempty" example:"{\"code\":\"rest_cannot_create\"}"`
	Status  int    `json:"status,omitempty" example:"403"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"blog deleted"`
}

// StatusResponseDTO 는 GET /wordpress 응답이다.
type StatusResponseDTO struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"WordPress API is up"`
}

// WebhookAckDTO 는 웹훅 수신 확인 응답이다.
type WebhookAckDTO struct {
	Success bool `json:"success" example:"true"`
}
