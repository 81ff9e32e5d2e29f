package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden 调用者无权操作该申请
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound 申请不存在或对调用者不可见
	ErrNotFound = errors.New("application not found")
	// ErrBadRequest 请求载荷不合法
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidTransition 当前状态下该角色不允许此动作
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflict 并发条件更新失败，需按最新状态重新评估
	ErrConflict = errors.New("concurrent transition conflict")

	// ErrReasonRequired 企业拒绝必须填写原因
	ErrReasonRequired = fmt.Errorf("%w: rejection reason required", ErrBadRequest)
	// ErrAlreadyExtended 有效期只能延长一次
	ErrAlreadyExtended = fmt.Errorf("%w: validity already extended", ErrBadRequest)
	// ErrInvalidDays 延长天数不合法
	ErrInvalidDays = fmt.Errorf("%w: invalid days", ErrBadRequest)
	// ErrUnknownAction 未知动作
	ErrUnknownAction = fmt.Errorf("%w: unknown action", ErrBadRequest)

	// ErrJobNotFound 职位不存在
	ErrJobNotFound = errors.New("job not found")
	// ErrJobClosed 职位已关闭投递
	ErrJobClosed = errors.New("job is not open for applications")
	// ErrCompanyNotFound 调用者名下没有企业档案
	ErrCompanyNotFound = errors.New("company not found")
)
