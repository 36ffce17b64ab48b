package driveurl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAllCandidatesFailed se devuelve cuando toda la secuencia de candidatas
// se agotó sin una respuesta utilizable. El consumidor puede reintentar
// desde la primera candidata.
var ErrAllCandidatesFailed = errors.New("all candidate urls failed to load")

const maxImageBytes = 10 << 20 // 10MB

// Fetcher recorre las URLs candidatas de una referencia de imagen y se
// detiene en la primera que carga.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch devuelve los bytes y el content type de la primera candidata que
// responde con una imagen. Una referencia a carpeta falla de inmediato con
// ErrFolderURL, sin intento de red alguno.
func (f *Fetcher) Fetch(ctx context.Context, raw string) ([]byte, string, error) {
	if Classify(raw) == KindFolder {
		return nil, "", ErrFolderURL
	}

	candidates := ExpandCandidateURLs(raw)
	if len(candidates) == 0 {
		return nil, "", ErrAllCandidatesFailed
	}

	var lastErr error
	for _, candidate := range candidates {
		data, contentType, err := f.tryOne(ctx, candidate)
		if err == nil {
			return data, contentType, nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("%w: %v", ErrAllCandidatesFailed, lastErr)
}

func (f *Fetcher) tryOne(ctx context.Context, candidate string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, candidate)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		// Drive responde HTML cuando el archivo no es público.
		return nil, "", fmt.Errorf("non-image response (%s) from %s", contentType, candidate)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
