package event

const IdentityAccountRegisteredDestination string = "identity_account_registered"

type IdentityAccountRegisteredMessage struct {
	AccountID    int64  `json:"account_id,string"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}
