/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import "encoding/json"

// Serializer converts a document into the request body bytes.
type Serializer interface {
	ContentType() string
	Serialize(doc *Document) ([]byte, error)
}

// JSONSerializer serializes documents into JSON. It is the default
// serializer used by the Client.
type JSONSerializer struct{}

// ContentType returns the media type of the serialized body.
func (s JSONSerializer) ContentType() string {
	return "application/json"
}

// Serialize marshals the document into JSON.
func (s JSONSerializer) Serialize(doc *Document) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, &SerializationError{Inner: err}
	}
	return b, nil
}
