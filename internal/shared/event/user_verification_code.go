package event

const UserVerificationCodeDestination string = "user_verification_code"
const UserVerificationCodeConsumerNotification string = "user_verification_code_notification"

type UserVerificationCodeMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
}
