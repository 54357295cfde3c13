package models

import "time"

// Message is a messages row. ReadAt is nil until the message is read.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// SentMessage is a message from the point of view of its sender.
type SentMessage struct {
	ID     int64      `json:"id"`
	ToUser Contact    `json:"to_user"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`
}

// ReceivedMessage is a message from the point of view of its recipient.
type ReceivedMessage struct {
	ID       int64      `json:"id"`
	FromUser Contact    `json:"from_user"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
}

// MessageDetail is a single message with both parties inlined.
type MessageDetail struct {
	ID       int64      `json:"id"`
	FromUser Contact    `json:"from_user"`
	ToUser   Contact    `json:"to_user"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
}
