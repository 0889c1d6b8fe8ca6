package ws

import "encoding/json"

type Envelope struct {
	Type    string      `json:"type"`
	QuizID  int64       `json:"quizId"`
	Payload interface{} `json:"payload"`
}

type clientMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
