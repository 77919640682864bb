package public

import (
	"net/http"

	"github.com/undangan-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptcha 生成留言图片验证码
func (h *Handler) GetCaptcha(c *gin.Context) {
	if !h.CaptchaService.CommentEnabled() {
		response.Success(c, "Captcha is disabled.", gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate captcha.", err)
		return
	}
	response.Success(c, "Captcha generated.", gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
