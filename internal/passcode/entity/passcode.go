package entity

// Passcode is a single one-time passcode record.
//
// Time fields are unix epoch seconds. VerifiedTime stays zero until the
// passcode is consumed; a non-zero value marks the record as terminal.
type Passcode struct {
	ID             string
	IssuerToken    string
	Code           string
	ExpireDuration int64
	CreateTime     int64
	VerifiedTime   int64
}

// ExpireTime returns the last second at which verification may still succeed.
func (p Passcode) ExpireTime() int64 {
	return p.CreateTime + p.ExpireDuration
}

// IsExpired reports whether the validity window has passed at the given time.
// The window is inclusive: a passcode created at t with duration d is still
// valid at exactly t+d.
func (p Passcode) IsExpired(now int64) bool {
	return now > p.CreateTime+p.ExpireDuration
}

// IsConsumed reports whether the passcode has already been verified.
func (p Passcode) IsConsumed() bool {
	return p.VerifiedTime != 0
}
