// Package notify shows desktop notifications for timer transitions
package notify

import (
	"fmt"
	"os"

	"github.com/gen2brain/beeep"
)

// Category identifies the transition that produced a notification. Each
// category can be switched off on its own.
type Category string

const (
	FocusStart    Category = "focus_start"
	FocusEnd      Category = "focus_end"
	BreakStart    Category = "break_start"
	BreakEnd      Category = "break_end"
	CycleComplete Category = "cycle_complete"
	Test          Category = "test"
)

// Message is the content of a single notification.
type Message struct {
	Title    string
	Body     string
	Category Category
}

// Compose returns the notification for a category. minutes is the length of
// the phase that starts, cycles the number of focus sessions in a cycle.
func Compose(c Category, minutes, cycles int) Message {
	m := Message{Category: c}

	switch c {
	case FocusStart:
		m.Title = "Focus Session Started 🎯"
		m.Body = fmt.Sprintf("Stay on task for the next %d minutes.", minutes)
	case FocusEnd:
		m.Title = "Focus Session Complete! 🎉"
		m.Body = "Great job! Time for a well-deserved break."
	case BreakStart:
		m.Title = "Break Started ☕"
		m.Body = fmt.Sprintf("Step away for %d minutes.", minutes)
	case BreakEnd:
		m.Title = "Break Time Over! ⚡"
		m.Body = "Ready to get back to focused work?"
	case CycleComplete:
		m.Title = "Cycle Complete! 🔄"
		m.Body = fmt.Sprintf(
			"You've completed %d focus sessions. Great work!",
			cycles,
		)
	case Test:
		m.Title = "Test Notification"
		m.Body = "This is how your notifications will look!"
	}

	return m
}

// Desktop sends notifications through the operating system.
type Desktop struct {
	icon string
}

// NewDesktop returns a notifier that shows icon next to each notification
// when the file exists.
func NewDesktop(icon string) *Desktop {
	if _, err := os.Stat(icon); err != nil {
		icon = ""
	}

	return &Desktop{icon: icon}
}

func (d *Desktop) Notify(title, body string, _ Category) error {
	return beeep.Notify(title, body, d.icon)
}
