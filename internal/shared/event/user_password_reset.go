package event

const UserPasswordResetDestination string = "user_password_reset"
const UserPasswordResetConsumerNotification string = "user_password_reset_notification"

type UserPasswordResetMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
}
