package bridge

// Envelope is the unit exchanged across the Host/Guest boundary. Payloads are
// an in-memory structure; wire transports choose their own encoding.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}
