package domain

import "time"

// ResetCodeTTL is how long a password reset code stays valid after issuance.
const ResetCodeTTL = 10 * time.Minute

// PasswordResetCode is a one-time code granting permission to change a password.
// PK: user_id, so issuing a new code for a user overwrites the previous one
// and at most one code per user is ever live.
// ExpiresAt doubles as the DynamoDB TTL so dead rows get reaped.
type PasswordResetCode struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Code      string    `json:"code" dynamodbav:"code"` // 6 digits
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// IsExpired reports whether the 10-minute validity window has passed.
func (c *PasswordResetCode) IsExpired() bool {
	return time.Now().After(c.CreatedAt.Add(ResetCodeTTL))
}
