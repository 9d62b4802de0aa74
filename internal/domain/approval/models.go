package approval

import (
	"encoding/json"
	"time"
)

type Request struct {
	ID             string          `json:"id"`
	EntityType     string          `json:"entityType"`
	EntityID       string          `json:"entityId,omitempty"`
	Operation      string          `json:"operation"`
	RequestData    json.RawMessage `json:"requestData"`
	CurrentData    json.RawMessage `json:"currentData,omitempty"`
	Status         string          `json:"status"`
	Maker          string          `json:"maker"`
	MakerComment   string          `json:"makerComment"`
	Checker        string          `json:"checker,omitempty"`
	CheckerComment string          `json:"checkerComment,omitempty"`
	RequestedAt    time.Time       `json:"requestedAt"`
	CheckedAt      *time.Time      `json:"checkedAt,omitempty"`
}

type Submission struct {
	EntityType   string
	EntityID     string
	Operation    string
	RequestData  json.RawMessage
	CurrentData  json.RawMessage
	Maker        string
	MakerComment string
}
