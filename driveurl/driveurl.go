// Package driveurl resuelve las URLs de fotos alojadas en Google Drive.
// Un mismo archivo es accesible por varias formas de URL; aquí se derivan
// candidatas ordenadas para que el consumidor intente una por una.
package driveurl

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

type URLKind string

const (
	KindFile    URLKind = "file"
	KindFolder  URLKind = "folder"
	KindUnknown URLKind = "unknown"
)

var (
	// ErrFolderURL indica que la URL apunta a una carpeta, que nunca puede
	// servir una imagen directamente.
	ErrFolderURL = errors.New("url references a folder, not a file")
)

var (
	filePathRe  = regexp.MustCompile(`/(?:file/)?d/([a-zA-Z0-9_-]{10,})`)
	folderRe    = regexp.MustCompile(`/(?:drive/)?folders/([a-zA-Z0-9_-]{10,})`)
	fileIDParam = []string{"id"}
)

// Classify determina si la referencia es un archivo, una carpeta o algo
// irreconocible. Cualquier URL fuera del dominio de Drive es unknown.
func Classify(raw string) URLKind {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return KindUnknown
	}

	parsed, err := url.Parse(raw)
	if err != nil || !strings.Contains(parsed.Host, "drive.google.com") {
		return KindUnknown
	}

	if folderRe.MatchString(parsed.Path) {
		return KindFolder
	}
	if filePathRe.MatchString(parsed.Path) {
		return KindFile
	}
	for _, param := range fileIDParam {
		if parsed.Query().Get(param) != "" {
			return KindFile
		}
	}
	return KindUnknown
}

// ExtractFileID obtiene el identificador de archivo de cualquiera de las
// formas de URL de Drive; cadena vacía si no se puede extraer.
func ExtractFileID(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if m := filePathRe.FindStringSubmatch(parsed.Path); len(m) == 2 {
		return m[1]
	}
	for _, param := range fileIDParam {
		if id := parsed.Query().Get(param); len(id) >= 10 {
			return id
		}
	}
	return ""
}

// ExpandCandidateURLs produce la secuencia ordenada de URLs a intentar.
// Carpetas no generan candidatas; URLs irreconocibles devuelven la original
// como último recurso. La secuencia es finita y se recalcula en cada llamada.
func ExpandCandidateURLs(raw string) []string {
	switch Classify(raw) {
	case KindFolder:
		return []string{}
	case KindUnknown:
		if strings.TrimSpace(raw) == "" {
			return []string{}
		}
		return []string{raw}
	}

	fileID := ExtractFileID(raw)
	if fileID == "" {
		return []string{raw}
	}

	return []string{
		fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w400", fileID),
		fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", fileID),
		fmt.Sprintf("https://lh3.googleusercontent.com/d/%s", fileID),
		fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w800", fileID),
	}
}

// ViewerURL es la forma navegable del archivo, útil para abrir documentos
// en una pestaña del visor de Drive.
func ViewerURL(raw string) string {
	if fileID := ExtractFileID(raw); fileID != "" {
		return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
	}
	return raw
}

type Diagnosis struct {
	IsValid     bool     `json:"isValid"`
	FileID      string   `json:"fileId,omitempty"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	URLType     URLKind  `json:"urlType"`
}

// Diagnose explica por qué una referencia de imagen no sirve. Nunca
// devuelve error: ante cualquier falla interna responde IsValid=false con
// un mensaje genérico.
func Diagnose(raw string) (d Diagnosis) {
	defer func() {
		if r := recover(); r != nil {
			d = Diagnosis{
				IsValid: false,
				Error:   "no se pudo analizar la URL",
				URLType: KindUnknown,
			}
		}
	}()

	kind := Classify(raw)
	d = Diagnosis{URLType: kind}

	switch kind {
	case KindFolder:
		d.Error = "la URL apunta a una carpeta de Drive, no a un archivo"
		d.Suggestions = []string{
			"Abra la carpeta, seleccione la imagen y copie el enlace del archivo individual",
			"Verifique que el archivo sea público (cualquier persona con el enlace)",
		}
	case KindUnknown:
		if strings.TrimSpace(raw) == "" {
			d.Error = "la URL está vacía"
			d.Suggestions = []string{"Registre una URL de foto para el jugador"}
			return d
		}
		d.Error = "la URL no corresponde a un enlace de Google Drive reconocible"
		d.Suggestions = []string{
			"Use el enlace 'Compartir' de Drive con la forma https://drive.google.com/file/d/<id>/view",
		}
	case KindFile:
		fileID := ExtractFileID(raw)
		if fileID == "" {
			d.Error = "no se pudo extraer el identificador del archivo"
			d.Suggestions = []string{
				"Copie de nuevo el enlace desde el botón Compartir de Drive",
			}
			return d
		}
		d.IsValid = true
		d.FileID = fileID
	}
	return d
}
