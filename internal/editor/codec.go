package editor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/klauspost/compress/zstd"
)

// Stateless encoder/decoder pair, safe for concurrent use via EncodeAll /
// DecodeAll.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Encode serializes a document as JSON, compresses it with zstd and encodes
// the result as base64. Go's map marshaling sorts keys, so encoding is
// deterministic: encoding an unchanged document yields an identical string.
func Encode(doc Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)
	return base64.StdEncoding.EncodeToString(compressed), nil
}

// Decode reverses Encode. It fails soft: nil input, empty input or a
// malformed payload (bad base64, corrupt compression stream, invalid JSON)
// all yield a nil document after a log line, never an error. Callers treat
// nil as "no canvas yet".
func Decode(serial *string) Document {
	if serial == nil || *serial == "" {
		return nil
	}
	compressed, err := base64.StdEncoding.DecodeString(*serial)
	if err != nil {
		log.Printf("editor: discarding document with invalid base64: %v", err)
		return nil
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		log.Printf("editor: discarding document with corrupt compression stream: %v", err)
		return nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("editor: discarding document with invalid JSON: %v", err)
		return nil
	}
	return doc
}
