package event

const PasscodeVerifiedDestination string = "passcode_verified"

type PasscodeVerifiedMessage struct {
	EventID      int64  `json:"event_id"`
	PasscodeID   string `json:"passcode_id"`
	VerifiedTime int64  `json:"verified_time"`
}
