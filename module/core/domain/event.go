package domain

import "time"

type UIEventType string

const (
	EventAreaDiscovered     UIEventType = "area_discovered"
	EventStickerDiscovered  UIEventType = "sticker_discovered"
	EventNotificationShown  UIEventType = "notification_shown"
	EventNotificationHidden UIEventType = "notification_hidden"
	EventCameraAvailability UIEventType = "camera_availability"
	EventCurrentArea        UIEventType = "current_area"
	EventVibrate            UIEventType = "vibrate"
	EventInventoryChanged   UIEventType = "inventory_changed"
	EventStatus             UIEventType = "status"
	EventVisitConfirmed     UIEventType = "visit_confirmed"
)

// UIEvent is emitted towards the presentation layer.
type UIEvent struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	Type         UIEventType `json:"type"`
	Area         string      `json:"area,omitempty"`
	StickerIndex int         `json:"sticker_index,omitempty"`
	Message      string      `json:"message,omitempty"`
	Image        string      `json:"image,omitempty"`
	Available    bool        `json:"available,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// DisplayState is the last known presentation state derived from emitted events.
type DisplayState struct {
	CurrentArea         string `json:"current_area"`
	CameraAvailable     bool   `json:"camera_available"`
	Notification        string `json:"notification"`
	NotificationImage   string `json:"notification_image,omitempty"`
	NotificationVisible bool   `json:"notification_visible"`
	Status              string `json:"status"`
}

type AreaProgress struct {
	Area      string `json:"area"`
	Collected int    `json:"collected"`
	Total     int    `json:"total"`
	Indices   []int  `json:"indices"`
}
