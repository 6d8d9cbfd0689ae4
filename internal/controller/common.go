package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/antisocialnet/antisocialnet/internal/apperr"
	"github.com/antisocialnet/antisocialnet/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// pathID 解析路径里的数字ID
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.InvalidInput("无效的ID参数")
	}
	return uint(id), nil
}

var validationMsg = map[string]string{
	"required": "不能为空",
	"min":      "长度不能小于%v",
	"max":      "长度不能大于%v",
	"email":    "必须是有效的邮箱地址",
	"oneof":    "必须是[%v]中的一个",
	"gte":      "必须大于等于%v",
	"lte":      "必须小于等于%v",
}

// bindErr 把绑定错误转换成可读的提示返回给客户端
func bindErr(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		tmpl, ok := validationMsg[first.Tag()]
		if !ok {
			tmpl = "验证失败"
		}
		msg := tmpl
		if first.Param() != "" {
			msg = fmt.Sprintf(tmpl, first.Param())
		}
		response.BadRequest(c, first.Field()+msg, err)
		return
	}
	bindErr(c, err)
}
