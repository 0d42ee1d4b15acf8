package catalog

import (
	"encoding/json"
	"fmt"
)

// Product statuses. Deleted products stay in the catalog as tombstones so
// historic bills keep resolving.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Product mirrors one row of the server-side catalog. The device cache is a
// read-mostly replica, fully replaced on every successful fetch.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Qty      string  `json:"qty"`
	Unit     string  `json:"unit"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Barcode  string  `json:"barcode"`
	Image    string  `json:"image"`
	Status   string  `json:"status"`
}

// Payload is the enveloped catalog response shape.
type Payload struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
	Message  string    `json:"message,omitempty"`
}

// ParsePayload normalizes a catalog response body. The server may answer
// with a bare array or with a {success, products} wrapper; both decode to
// the same product list. Anything else is a parse failure.
func ParsePayload(body []byte) ([]Product, error) {
	var wrapped Payload
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Products != nil {
		if !wrapped.Success {
			return nil, fmt.Errorf("catalog response not successful: %s", wrapped.Message)
		}
		return wrapped.Products, nil
	}

	var bare []Product
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("unrecognized catalog payload: %w", err)
	}
	return bare, nil
}
