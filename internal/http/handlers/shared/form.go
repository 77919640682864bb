package shared

import (
	"strconv"
	"strings"

	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FormFile 读取单个上传文件，未上传时返回 nil
func FormFile(c *gin.Context, field string) *service.FileInput {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return service.FileFromHeader(header)
}

// FormFiles 读取同名多文件字段，兼容 field 与 field[] 两种写法
func FormFiles(c *gin.Context, field string) []*service.FileInput {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	headers := form.File[field]
	if len(headers) == 0 {
		headers = form.File[field+"[]"]
	}
	files := make([]*service.FileInput, 0, len(headers))
	for _, h := range headers {
		files = append(files, service.FileFromHeader(h))
	}
	return files
}

// OptionalFormString 表单字段存在时返回其指针
func OptionalFormString(c *gin.Context, field string) *string {
	value, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	return &value
}

// OptionalFormUint 表单字段存在且可解析时返回其指针
func OptionalFormUint(c *gin.Context, field string) *uint {
	value, ok := c.GetPostForm(field)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}

// FormBool 解析表单布尔值，1/true/on 视为真
func FormBool(c *gin.Context, field string) bool {
	value := strings.ToLower(strings.TrimSpace(c.PostForm(field)))
	return value == "1" || value == "true" || value == "on"
}

// OptionalFormBool 表单字段存在时返回其布尔值
func OptionalFormBool(c *gin.Context, field string) *bool {
	if _, ok := c.GetPostForm(field); !ok {
		return nil
	}
	value := FormBool(c, field)
	return &value
}
