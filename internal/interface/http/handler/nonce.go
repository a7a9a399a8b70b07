package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/pkg/sanitize"
)

// 防伪令牌的动作作用域，不同表单的令牌不能混用
const (
	ActionSubmit     = "books_submit"      // 前端组件匿名提交
	ActionAdd        = "books_add"         // 后台新增
	ActionBulkDelete = "books_bulk_delete" // 后台批量删除
)

// ActionEdit 后台编辑令牌绑定到具体的图书ID
func ActionEdit(id uint) string {
	return fmt.Sprintf("books_edit:%d", id)
}

// queryInt 读取整数查询参数
// 参数缺失时返回def；存在但非法或小于1时按1处理
func queryInt(c *gin.Context, key string, def int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n := sanitize.Int(raw)
	if n < 1 {
		return 1
	}
	return n
}
