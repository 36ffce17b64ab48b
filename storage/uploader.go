package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstrae el almacén de objetos: subir bajo una clave dentro
// de un bucket, obtener la URL pública y borrar por clave.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string

	// KeyFromPublicURL invierte GetPublicURL: recupera la clave del objeto
	// a partir de su URL pública. false para URLs de otro origen.
	KeyFromPublicURL(rawURL string) (string, bool)
}
