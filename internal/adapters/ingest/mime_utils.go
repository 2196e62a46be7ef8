package ingest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// wordDecoder decodes RFC 2047 encoded-words in headers, with charset
// support beyond UTF-8.
var wordDecoder = mime.WordDecoder{CharsetReader: charsetReader}

// charsetReader returns a reader that transcodes input to UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		// Unknown charset, pass the bytes through
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// decodeHeader decodes an RFC 2047 encoded header value, falling back
// to the raw value when decoding fails.
func decodeHeader(value string) string {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// decodeBody transcodes a body to UTF-8 according to the charset
// parameter of its Content-Type, defaulting to a pass-through.
func decodeBody(r io.Reader, contentType string) (string, error) {
	charset := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			charset = params["charset"]
		}
	}
	if charset != "" && !strings.EqualFold(charset, "utf-8") {
		if enc, err := ianaindex.MIME.Encoding(charset); err == nil && enc != nil {
			r = transform.NewReader(r, enc.NewDecoder())
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractTextFromMessage extracts the text content from an email message.
// For multipart messages it collects text/plain parts; for everything
// else it decodes the whole body.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	if !strings.Contains(strings.ToLower(contentType), "multipart/") {
		return decodeBody(msg.Body, contentType)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return decodeBody(msg.Body, "")
	}

	boundary, ok := params["boundary"]
	if !ok {
		return decodeBody(msg.Body, "")
	}

	mr := multipart.NewReader(msg.Body, boundary)
	var textParts bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed part, return whatever was collected so far
			break
		}

		partType := part.Header.Get("Content-Type")
		if partType == "" || strings.Contains(strings.ToLower(partType), "text/plain") {
			text, err := decodeBody(part, partType)
			if err != nil {
				continue
			}
			if textParts.Len() > 0 {
				textParts.WriteString("\n")
			}
			textParts.WriteString(text)
		}
	}

	return textParts.String(), nil
}
