package core

import (
	"sync"
)

/**
 * @brief Payload handed to every listener. Which fields are set depends
 * on the event code.
 */
type EventContext struct {
	// Path of the file that triggered the event, if any.
	Path string
	// Count of the items the event touched.
	Count int
	// Err is set when the event reports a failure.
	Err error
	// Data carries an event specific value, such as a report.
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// The watched scene file changed on disk.
	/* Context usage:
	 * Path = scene file
	 */
	EVENT_CODE_SCENE_CHANGED SystemEventCode = 0x01

	// Textures were probed again after their image changed.
	/* Context usage:
	 * Path = image file
	 * Count = number of textures updated
	 */
	EVENT_CODE_TEXTURES_RELOADED SystemEventCode = 0x02

	// A scene evaluation finished.
	/* Context usage:
	 * Data = the report
	 */
	EVENT_CODE_REPORT_READY SystemEventCode = 0x03

	// A scene could not be loaded or evaluated.
	/* Context usage:
	 * Err = the failure
	 */
	EVENT_CODE_EVALUATION_FAILED SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type EventSystem struct {
	mutex      sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

// Register adds a listener for code. A listener can only be registered once per code.
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	es.mutex.Lock()
	defer es.mutex.Unlock()

	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * @brief Sends the event to the listeners of code in registration order,
 * stopping at the first one that handles it.
 * @return True if a listener handled the event.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	es.mutex.RLock()
	events := make([]*registeredEvent, len(es.registered[code]))
	copy(events, es.registered[code])
	es.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

func (es *EventSystem) Shutdown() {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	es.registered = make(map[SystemEventCode][]*registeredEvent)
}
