package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/a2sh3r/commission-ledger/internal/hash"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"go.uber.org/zap"
)

const HashHeader = "HashSHA256"

type hashResponseWriter struct {
	http.ResponseWriter
	key    string
	status int
	buf    bytes.Buffer
}

func (w *hashResponseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *hashResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *hashResponseWriter) flush() {
	if sum := hash.CalculateHash(w.buf.String(), w.key); sum != "" {
		w.Header().Set(HashHeader, sum)
	}
	w.ResponseWriter.WriteHeader(w.status)
	if _, err := w.ResponseWriter.Write(w.buf.Bytes()); err != nil {
		logger.Log.Error("failed to write signed response", zap.Error(err))
	}
}

// NewHashMiddleware rejects request bodies whose HashSHA256 header does not
// match the HMAC of the body under secretKey, and signs the response the same
// way. With an empty key it passes everything through.
func NewHashMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := r.Header.Get(HashHeader)
			if sum == "" {
				http.Error(w, "missing "+HashHeader+" header", http.StatusBadRequest)
				return
			}
			if err := hash.VerifyHash(string(body), secretKey, sum); err != nil {
				logger.Log.Warn("request signature mismatch", zap.String("uri", r.RequestURI))
				http.Error(w, "invalid body hash", http.StatusBadRequest)
				return
			}

			hw := &hashResponseWriter{ResponseWriter: w, key: secretKey, status: http.StatusOK}
			next.ServeHTTP(hw, r)
			hw.flush()
		})
	}
}
