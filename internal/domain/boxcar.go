package domain

// StreamKey derives the ordering-domain key for a (tenant, document) pair.
// Two messages with the same key are flushed in submission order; messages
// with different keys have no ordering relationship.
func StreamKey(tenantID, documentID string) string {
	return tenantID + "/" + documentID
}

// Boxcar is a batch of messages for one stream. It maintains the invariant
// that Size is the sum of the lengths of Messages and never exceeds the
// effective message size limit enforced by the producer.
type Boxcar struct {
	// TenantID and DocumentID identify the owning stream.
	TenantID   string
	DocumentID string

	// Messages holds the raw payloads in insertion order.
	Messages []string

	// Size is the running sum of payload lengths.
	Size int

	// Ack is the completion handle shared by every message in this boxcar.
	// It settles once, after the broker acknowledges or rejects the record.
	Ack *Ack
}

// NewBoxcar creates an empty boxcar for the given stream with a fresh
// completion handle.
func NewBoxcar(tenantID, documentID string) *Boxcar {
	return &Boxcar{
		TenantID:   tenantID,
		DocumentID: documentID,
		Ack:        NewAck(),
	}
}

// Append adds a message to the boxcar and grows its size.
func (b *Boxcar) Append(msg string) {
	b.Messages = append(b.Messages, msg)
	b.Size += len(msg)
}

// Fits reports whether msg can be appended without breaching limit.
func (b *Boxcar) Fits(msg string, limit int) bool {
	return b.Size+len(msg) <= limit
}

// Len returns the number of messages in the boxcar.
func (b *Boxcar) Len() int {
	return len(b.Messages)
}

// Record returns the wire form of the boxcar.
func (b *Boxcar) Record() Record {
	return Record{
		Type:       RecordTypeBoxcar,
		TenantID:   b.TenantID,
		DocumentID: b.DocumentID,
		Contents:   b.Messages,
	}
}
