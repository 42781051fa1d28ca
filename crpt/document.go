/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package crpt provides a client for submitting documents to the CRPT
// ("Chestny ZNAK") marking system. Submissions are rate-limited on the
// client side with ratelimit.Gate.
package crpt

// DocTypeLPIntroduceGoods is a document type for introducing goods
// produced in the Russian Federation into circulation.
const DocTypeLPIntroduceGoods = "LP_INTRODUCE_GOODS"

// Document represents a document for introducing a product into circulation.
type Document struct {
	Description    *Description `json:"description,omitempty"`
	DocID          string       `json:"doc_id"`
	DocStatus      string       `json:"doc_status"`
	DocType        string       `json:"doc_type"`
	ImportRequest  bool         `json:"importRequest,omitempty"`
	OwnerInn       string       `json:"owner_inn"`
	ParticipantInn string       `json:"participant_inn"`
	ProducerInn    string       `json:"producer_inn"`
	ProductionDate string       `json:"production_date"`
	ProductionType string       `json:"production_type"`
	Products       []Product    `json:"products"`
	RegDate        string       `json:"reg_date"`
	RegNumber      string       `json:"reg_number,omitempty"`
}

// Description holds the document description block.
type Description struct {
	ParticipantInn string `json:"participantInn"`
}

// Product represents a single product item within a document.
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   string `json:"certificate_document_date,omitempty"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerInn                  string `json:"owner_inn"`
	ProducerInn               string `json:"producer_inn"`
	ProductionDate            string `json:"production_date"`
	TnvedCode                 string `json:"tnved_code"`
	UitCode                   string `json:"uit_code,omitempty"`
	UituCode                  string `json:"uitu_code,omitempty"`
}
