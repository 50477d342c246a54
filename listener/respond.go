package listener

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
)

// RequestBufferSize bounds how much of a request is read. The request is never
// parsed, every request receives the same response.
const RequestBufferSize = 1024

// Content types written for the content file and the fallback document
const (
	ContentTypeFile     = "text/html; charset=utf-8"
	ContentTypeFallback = "text/html"
)

// Payload is the body and headers of a response
type Payload struct {
	Body         []byte
	ContentType  string
	CacheControl string
	// Fallback is true if the content file could not be read
	Fallback bool
	// ReadErr holds the content file read error when Fallback is true
	ReadErr error
}

// Bytes renders the payload as an HTTP/1.1 200 response
func (p Payload) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("HTTP/1.1 200 OK\r\n")
	fmt.Fprintf(&buf, "Content-Type: %s\r\n", p.ContentType)
	fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(p.Body))
	if p.CacheControl != "" {
		fmt.Fprintf(&buf, "Cache-Control: %s\r\n", p.CacheControl)
	}
	buf.WriteString("\r\n")
	buf.Write(p.Body)
	return buf.Bytes()
}

// Responder builds the response for each request
type Responder struct {
	// ContentFile is read fresh for every response
	ContentFile string

	now func() time.Time
	pid func() int
}

// NewResponder creates a Responder serving contentFile, relative to the working directory
func NewResponder(contentFile string) *Responder {
	return &Responder{
		ContentFile: contentFile,
		now:         time.Now,
		pid:         os.Getpid,
	}
}

// Payload reads the content file, falling back to a generated document if it
// cannot be read.
func (r *Responder) Payload() Payload {
	content, err := ioutil.ReadFile(r.ContentFile)
	if err == nil {
		return Payload{
			Body:         content,
			ContentType:  ContentTypeFile,
			CacheControl: "no-store",
		}
	}
	return Payload{
		Body:        r.fallback(),
		ContentType: ContentTypeFallback,
		Fallback:    true,
		ReadErr:     err,
	}
}

func (r *Responder) fallback() []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString("<html>\n")
	buf.WriteString("<head><title>🧛 Vampire HTTP Server</title></head>\n")
	buf.WriteString(`<body style="font-family:monospace;background:#000;color:#0f0;margin:20px;">` + "\n")
	buf.WriteString("<h1>🧛 Vampire HTTP Server</h1>\n")
	buf.WriteString("<p>Self-killing fork structure active</p>\n")
	fmt.Fprintf(&buf, "<p>Process ID: %d</p>\n", r.pid())
	fmt.Fprintf(&buf, "<p>Time: %s</p>\n", r.now().Format(time.RFC1123Z))
	buf.WriteString("<p>⚡ Server continuously spawns and kills itself</p>\n")
	fmt.Fprintf(&buf, "<p>❌ %s not found</p>\n", html.EscapeString(r.ContentFile))
	buf.WriteString("</body>\n")
	buf.WriteString("</html>\n")
	return buf.Bytes()
}

// Respond reads up to RequestBufferSize bytes from conn and writes the response.
// An empty or failed read still receives a response.
// Closing conn is left to the caller.
func (r *Responder) Respond(conn io.ReadWriter) (Payload, int, error) {
	request := make([]byte, RequestBufferSize)
	n, _ := conn.Read(request)

	payload := r.Payload()
	if _, err := conn.Write(payload.Bytes()); err != nil {
		return payload, n, errors.WithMessage(err, "writing response")
	}
	return payload, n, nil
}
