package api

const (
	// MediaTypeFormatAndVersion is the content type of every JSON payload
	// exchanged over the webhook protocol.
	MediaTypeFormatAndVersion = "application/external.dns.webhook+json;version=1"

	contentTypeHeader    = "Content-Type"
	contentTypePlaintext = "text/plain"
	varyHeader           = "Vary"
	logFieldError        = "err"
)

// Message is the body shape used for request-level rejections.
type Message struct {
	Message string `json:"message"`
}
