package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/stepflow/internal/log"
	"github.com/zjrosen/stepflow/internal/store"
)

const defaultBridgeSize = 64

// StoreEventMsg carries a store event into the program.
type StoreEventMsg struct {
	Event store.Event
}

// EventBridge forwards store events to the bubbletea loop. Register
// Listener with store.WithListener and start Wait from Init.
type EventBridge struct {
	ch chan store.Event
}

// NewEventBridge creates a bridge buffering up to size events.
func NewEventBridge(size int) *EventBridge {
	if size <= 0 {
		size = defaultBridgeSize
	}
	return &EventBridge{ch: make(chan store.Event, size)}
}

// Listener returns the store listener. It never blocks: events arriving
// while the buffer is full are dropped.
func (b *EventBridge) Listener() store.Listener {
	return func(e store.Event) {
		select {
		case b.ch <- e:
		default:
			log.Debug(log.CatUI, "dropping store event", "type", e.Type)
		}
	}
}

// Wait blocks until the next event.
func (b *EventBridge) Wait() tea.Cmd {
	return func() tea.Msg {
		return StoreEventMsg{Event: <-b.ch}
	}
}

// ConfigChangedMsg reports that the config file was rewritten.
type ConfigChangedMsg struct{}

// waitForChange blocks until changes fires. A closed channel ends the loop.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return ConfigChangedMsg{}
	}
}
