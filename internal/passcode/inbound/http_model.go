package inbound

// SendRequest is the payload for issuing a passcode. ExpireDuration arrives as
// a string holding a non-negative number of seconds.
type SendRequest struct {
	Token          string `json:"token"`
	Phone          string `json:"phone"`
	Code           string `json:"code"`
	ExpireDuration string `json:"expire_duration"`
	Prefix         string `json:"prefix"`
	Tip            string `json:"tip"`
}

type SendResponse struct {
	RecordID        string `json:"record_id"`
	DeliveryReceipt string `json:"delivery_receipt"`
	VerifyEndpoint  string `json:"verify_endpoint"`
	CreateTime      int64  `json:"create_time"`
	ExpireTime      int64  `json:"expire_time"`
}

type VerifyRequest struct {
	RecordID string `json:"record_id"`
	Token    string `json:"token"`
	Code     string `json:"code"`
}

// VerifyResponse is the consumed record without its secret code.
type VerifyResponse struct {
	RecordID       string `json:"record_id"`
	CreateTime     int64  `json:"create_time"`
	ExpireDuration int64  `json:"expire_duration"`
	ExpireTime     int64  `json:"expire_time"`
	VerifiedTime   int64  `json:"verified_time"`
}
