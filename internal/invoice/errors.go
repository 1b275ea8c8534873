package invoice

import "errors"

var (
	ErrNotFound            = errors.New("invoice not found")
	ErrMalformedNumber     = errors.New("malformed invoice number")
	ErrUnknownCategory     = errors.New("unknown invoice type")
	ErrDeliveryUnavailable = errors.New("delivery not configured")
)
