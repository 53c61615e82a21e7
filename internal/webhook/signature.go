package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries "t=<unix seconds>,v0=<hex hmac>" on each delivery
const SignatureHeader = "ElevenLabs-Signature"

// SignatureVerifier checks HMAC-SHA256 signatures over "<t>.<body>"
type SignatureVerifier struct {
	secret  []byte
	maxSkew time.Duration
	clock   clock
}

func NewSignatureVerifier(secret string, maxSkew time.Duration) *SignatureVerifier {
	return &SignatureVerifier{
		secret:  []byte(secret),
		maxSkew: maxSkew,
		clock:   systemClock{},
	}
}

// Verify returns ErrInvalidSignature (wrapped) when header does not sign body
func (v *SignatureVerifier) Verify(header string, body []byte) error {
	if header == "" {
		return fmt.Errorf("%w: missing %s header", ErrInvalidSignature, SignatureHeader)
	}

	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v0":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrInvalidSignature, timestamp)
	}
	skew := v.clock.Now().Sub(time.Unix(unix, 0))
	if skew < 0 {
		skew = -skew
	}
	if v.maxSkew > 0 && skew > v.maxSkew {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	expected := v.sign(timestamp, body)
	given, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(given, expected) {
		return fmt.Errorf("%w: digest mismatch", ErrInvalidSignature)
	}
	return nil
}

// Sign produces a header value for body at the given time
func (v *SignatureVerifier) Sign(at time.Time, body []byte) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	return "t=" + timestamp + ",v0=" + hex.EncodeToString(v.sign(timestamp, body))
}

func (v *SignatureVerifier) sign(timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}
