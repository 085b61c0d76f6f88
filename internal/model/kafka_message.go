package model

import "time"

// AnalyzeMessage là yêu cầu import một user gửi tới Kafka
type AnalyzeMessage struct {
	Login       string    `json:"login"`
	RequestedAt time.Time `json:"requested_at"`
}
