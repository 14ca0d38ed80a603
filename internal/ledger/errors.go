package ledger

import "errors"

// 业务拒绝类错误会原样返回给调用方，不作为异常记录。
var (
	ErrNotFound            = errors.New("账本不存在")
	ErrAlreadyExists       = errors.New("账本已存在")
	ErrInvalidCatalogEntry = errors.New("无效的兑换券目录条目")
	ErrCatalogEntryMissing = errors.New("目录中没有该条目")
	ErrInsufficientFunds   = errors.New("余额不足")
	ErrInsufficientTickets = errors.New("抽取券与星辉均不足")
	ErrAlreadyClaimed      = errors.New("本周期内已领取")
	ErrVoucherNotFound     = errors.New("兑换券不存在")
	ErrInvalidRequest      = errors.New("请求参数无效")
)

// ErrStorageFailure 表示持久化失败，本次计算出的修改已被丢弃。
var ErrStorageFailure = errors.New("账本持久化失败")

// IsRejection 判断错误是否属于正常的业务拒绝。
func IsRejection(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientTickets) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrInvalidRequest)
}
