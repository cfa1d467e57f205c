package model

import (
	"strconv"
	"time"
)

const (
	// EventTypeAutoScan tags every event produced by the list harvester.
	EventTypeAutoScan = "AutoScan"
	// SourceChatList identifies the list the entries were read from.
	SourceChatList = "ChatList"
	// LabelAll is the label used when no narrower list view is detected.
	LabelAll = "All"
)

// Event is the record published for each harvested entry.
type Event struct {
	Text      string `yaml:"text"      json:"text"`
	EventType string `yaml:"eventType" json:"eventType"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
	Source    string `yaml:"source"    json:"source"`
	Label     string `yaml:"label"     json:"label"`
}

// NewEvent builds an AutoScan event for text with a millisecond timestamp.
func NewEvent(text, label string, at time.Time) Event {
	return Event{
		Text:      text,
		EventType: EventTypeAutoScan,
		Timestamp: strconv.FormatInt(at.UnixMilli(), 10),
		Source:    SourceChatList,
		Label:     label,
	}
}
