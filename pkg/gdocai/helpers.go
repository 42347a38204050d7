package gdocai

import (
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"
)

// ToJSON serializes a Document AI response for later use with ParseJSON
func ToJSON(doc *documentaipb.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to serialize")
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
}

// ParseJSON reads a Document AI response saved by ToJSON or by the
// Document AI console. Unknown fields are ignored.
func ParseJSON(data []byte) (*documentaipb.Document, error) {
	doc := &documentaipb.Document{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse Document AI JSON: %w", err)
	}
	return doc, nil
}
