package models

import "time"

// Certificate is the one stored record the issuance flow writes after a
// positive eligibility verdict. Verification reads these records only and
// never regenerates a verdict.
type Certificate struct {
	ID       string          `bson:"_id,omitempty" json:"id"`
	UserID   string          `bson:"user_id" json:"user_id"`
	Kind     CertificateKind `bson:"kind" json:"kind"`
	Serial   string          `bson:"serial" json:"serial"`
	IssuedAt time.Time       `bson:"issued_at" json:"issued_at"`
}
