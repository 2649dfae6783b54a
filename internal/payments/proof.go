package payments

import (
	"encoding/base64"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mmynk/mycese/internal/models"
)

// DefaultMaxProofBytes bounds the size of an uploaded proof.
const DefaultMaxProofBytes = 5 << 20

// ProofUpload is a receipt file as received from a member.
type ProofUpload struct {
	FileName    string
	ContentType string // optional; sniffed from Data when empty
	Data        []byte
}

// buildProof validates an upload and encodes it as a data URI. A nil upload
// or one without a file name yields no proof.
func buildProof(upload *ProofUpload, maxBytes int64, now time.Time) (*models.Proof, error) {
	if upload == nil || upload.FileName == "" {
		return nil, nil
	}
	if maxBytes > 0 && int64(len(upload.Data)) > maxBytes {
		return nil, ErrProofTooLarge.Withf("proof file is larger than %d bytes", maxBytes)
	}

	contentType := baseType(upload.ContentType)
	if len(upload.Data) > 0 {
		// The bytes win over whatever the client claimed.
		contentType = baseType(mimetype.Detect(upload.Data).String())
	}
	if contentType == "" {
		contentType = baseType(mime.TypeByExtension(extension(upload.FileName)))
	}
	if !allowedProofType(contentType) {
		return nil, ErrUnsupportedProofType.Withf("proof must be an image or a PDF, got %q", contentType)
	}

	proof := &models.Proof{
		FileName:    upload.FileName,
		SubmittedAt: now,
		FileType:    contentType,
	}
	if len(upload.Data) > 0 {
		proof.FileContent = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data)
	}
	return proof, nil
}

// DecodeProof returns the raw bytes and MIME type of a stored proof.
func DecodeProof(p *models.Proof) ([]byte, string, error) {
	if p == nil || p.FileContent == "" {
		return nil, "", ErrNoProof
	}
	rest, ok := strings.CutPrefix(p.FileContent, "data:")
	if !ok {
		return nil, "", ErrMalformedProof
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrMalformedProof
	}
	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, "", ErrMalformedProof.Withf("stored proof is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrMalformedProof.Wrap(err)
	}
	if contentType == "" {
		contentType = p.FileType
	}
	return data, contentType, nil
}

func allowedProofType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

func baseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(strings.ToLower(base))
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return strings.ToLower(name[i:])
	}
	return ""
}
