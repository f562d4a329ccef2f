package tasks

import (
	"encoding/json"
	"fmt"
)

// TypeLikeFanOut notifies the liked user and then, when the like is mutual,
// opens the chat and notifies both users. The steps run in that order inside
// one task so a retry repeats the whole sequence.
const TypeLikeFanOut = "like:fanout"

const QueueDefault = "default"

// LikePayload identifies the like that triggered the fan-out.
type LikePayload struct {
	LikeID   uint `json:"like_id"`
	ActorID  uint `json:"actor_id"`
	TargetID uint `json:"target_id"`
}

func NewLikeFanOutTask(p LikePayload) (Task, error) {
	return newTask(TypeLikeFanOut, p)
}

func ParseLikePayload(t Task) (LikePayload, error) {
	var p LikePayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return p, fmt.Errorf("tasks: decode %s payload: %w", t.Type, err)
	}
	if p.LikeID == 0 || p.ActorID == 0 || p.TargetID == 0 {
		return p, fmt.Errorf("tasks: incomplete %s payload", t.Type)
	}
	return p, nil
}

func newTask(taskType string, payload interface{}) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("tasks: encode %s payload: %w", taskType, err)
	}
	return Task{Type: taskType, Payload: raw}, nil
}
