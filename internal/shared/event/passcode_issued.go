package event

const PasscodeIssuedDestination string = "passcode_issued"

type PasscodeIssuedMessage struct {
	EventID     int64  `json:"event_id"`
	PasscodeID  string `json:"passcode_id"`
	PhoneNumber string `json:"phone_number"` // redacted, last four digits only
	CreateTime  int64  `json:"create_time"`
	ExpireTime  int64  `json:"expire_time"`
}
