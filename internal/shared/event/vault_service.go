package event

const VaultServiceEnrolledDestination string = "vault_service_enrolled"
const VaultServiceRemovedDestination string = "vault_service_removed"

// VaultServiceMessage is the body of both vault service events. It never
// carries secret material or codes.
type VaultServiceMessage struct {
	AccountID  int64  `json:"account_id,string"`
	ServiceID  string `json:"service_id"`
	Name       string `json:"name"`
	Issuer     string `json:"issuer,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
