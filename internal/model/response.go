package model

// ContentType is the small, closed vocabulary of content types this server
// negotiates. "none" means no body is ever sent for this response.
type ContentType string

const (
	ContentTypeJSON  ContentType = "application/json"
	ContentTypeText  ContentType = "text/plain"
	ContentTypeNone  ContentType = "none"
	ContentTypeAny   ContentType = "*/*"
	ContentTypeOctet ContentType = "application/octet-stream"
	ContentTypeJPEG  ContentType = "image/jpeg"
	ContentTypePNG   ContentType = "image/png"
	ContentTypeGIF   ContentType = "image/gif"
	ContentTypeMPEG  ContentType = "audio/mpeg"
	ContentTypeMP4   ContentType = "video/mp4"
)

// BinaryMediaTypes is the "binary media" set referenced by the handler
// matrix: upload/override accept exactly these.
var BinaryMediaTypes = map[ContentType]bool{
	ContentTypeOctet: true,
	ContentTypeJPEG:  true,
	ContentTypePNG:   true,
	ContentTypeGIF:   true,
	ContentTypeMPEG:  true,
	ContentTypeMP4:   true,
}

// ConnectionIntent is the connection-status a response declares after the
// handler ran; the session loop honors it when deciding to read the next
// request or close the socket.
type ConnectionIntent string

const (
	ConnectionKeepAlive ConnectionIntent = "keep-alive"
	ConnectionClose     ConnectionIntent = "close"
)

// Response is built up by a handler and then handed to the wire codec for
// serialization. Headers beyond Server/Connection/Content-Type/Content-Length
// are set directly through Headers (e.g. Content-Disposition on download).
type Response struct {
	Status     int
	Reason     string
	Headers    *Headers
	Body       []byte
	Type       ContentType
	Connection ConnectionIntent
}

// NewResponse starts a response with an empty header list and keep-alive
// connection intent (the session loop overrides Connection to close when
// the request asked for it or the handler chain failed hard).
func NewResponse(status int, reason string) *Response {
	return &Response{
		Status:     status,
		Reason:     reason,
		Headers:    NewHeaders(),
		Type:       ContentTypeNone,
		Connection: ConnectionKeepAlive,
	}
}

// SetBody attaches body bytes and the content type that describes them.
// Content-Type/Content-Length are set by the wire codec at serialization
// time, not here, so a handler can still add other headers afterwards.
func (r *Response) SetBody(body []byte, ct ContentType) {
	r.Body = body
	r.Type = ct
}
