package schemas

// ShowNotificationRequest shows a message. Duration is in milliseconds; zero
// or less means the configured default.
type ShowNotificationRequest struct {
	Message  string `json:"message"`
	Type     string `json:"type"`
	Duration int64  `json:"duration"`
}
