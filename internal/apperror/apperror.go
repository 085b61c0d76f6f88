package apperror

import (
	"errors"
	"fmt"
	"time"
)

// ErrUserNotFound báo rằng login không tồn tại trên GitHub hoặc
// chưa từng được import vào graph.
var ErrUserNotFound = errors.New("user not found")

// RateLimitError báo rằng quota GitHub API đã cạn. Reset là thời điểm
// quota được làm mới nếu header cho biết, zero nếu không.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "github api rate limit exceeded"
	}
	return fmt.Sprintf("github api rate limit exceeded, resets at %s", e.Reset.Format(time.RFC3339))
}

// RetryAfter trả về thời gian cần chờ trước khi thử lại, 0 nếu không rõ
func (e *RateLimitError) RetryAfter() time.Duration {
	if e.Reset.IsZero() {
		return 0
	}
	wait := time.Until(e.Reset)
	if wait < 0 {
		return 0
	}
	return wait
}

// NetworkError là lỗi transport hoặc phản hồi không mong đợi từ GitHub API
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("github api %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StoreError là lỗi đọc/ghi graph database
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("graph store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
