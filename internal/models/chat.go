package models

import "time"

// ChatMessage is one entry of the chat log
type ChatMessage struct {
	ID   string    `json:"id" yaml:"id"`
	User string    `json:"user" yaml:"user"`
	Text string    `json:"text" yaml:"text"`
	Type string    `json:"type" yaml:"type"`
	Time time.Time `json:"time" yaml:"time"`
}

// Commitment is the most recent commitment message of a user
type Commitment struct {
	Message string    `json:"message" yaml:"message"`
	Time    time.Time `json:"time" yaml:"time"`
}
