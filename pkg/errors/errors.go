package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrDuplicateOpenSession 并发打卡冲突：该店员已存在未关闭的考勤会话
// 由 clock_records 的部分唯一索引触发，Repository 层翻译为本错误。
var ErrDuplicateOpenSession = errors.New("该店员已有未关闭的考勤会话")
