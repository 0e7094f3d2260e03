package domain

import "encoding/json"

// RecordTypeBoxcar is the type discriminator of the outbound wire record.
const RecordTypeBoxcar = "boxcar"

// Record is the serialized form of a boxcar as produced to the broker.
// It is addressed by DocumentID as the routing key so the broker's
// partitioner keeps same-stream records on one partition.
type Record struct {
	Type       string   `json:"type"`
	TenantID   string   `json:"tenantId"`
	DocumentID string   `json:"documentId"`
	Contents   []string `json:"contents"`
}

// Encode serializes the record to its JSON wire form.
func (r Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}
