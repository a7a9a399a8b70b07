package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidTitle 书名为空
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidTitle, "Invalid input: title is required")

	// ErrInvalidAuthor 作者为空
	ErrInvalidAuthor = apperrors.New(apperrors.ErrCodeInvalidAuthor, "Invalid input: author is required")

	// ErrInvalidYear 出版年份超出[1, 9999]
	ErrInvalidYear = apperrors.New(apperrors.ErrCodeInvalidYear, "Invalid input: published_year must be between 1 and 9999")
)
