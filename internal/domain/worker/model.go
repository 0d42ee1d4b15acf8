package worker

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Worker is one staff account, keyed by username. The device caches the
// full directory, bcrypt hash included, so a cashier can log in while the
// shop is offline. Plain passwords are never stored anywhere.
type Worker struct {
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Status       string `json:"status"`
	PasswordHash string `json:"passwordHash"`
}

// Payload is the enveloped worker-directory response shape.
type Payload struct {
	Success bool     `json:"success"`
	Workers []Worker `json:"workers"`
	Message string   `json:"message,omitempty"`
}
