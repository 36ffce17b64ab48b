package documents

import (
	"bytes"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"
)

type LogoPosition string

const (
	PositionHeader    LogoPosition = "header"
	PositionCorner    LogoPosition = "corner"
	PositionWatermark LogoPosition = "watermark"
)

// LogoOptions controla el logo institucional de un certificado. Data son
// los bytes de la imagen ya descargados; si URL es nil o Data está vacío el
// paso del logo se omite por completo sin fallar la composición.
type LogoOptions struct {
	Include     bool
	URL         *string
	Data        []byte
	ContentType string
	Position    LogoPosition
}

type logoPlacement struct {
	x, y, w, h float64
	opacity    float64
}

// placementFor replica la geometría por posición: encabezado y esquina a
// tamaño fijo y opacidad plena, marca de agua grande centrada y tenue.
func placementFor(position LogoPosition, pageW, pageH float64) logoPlacement {
	switch position {
	case PositionWatermark:
		return logoPlacement{x: pageW/2 - 75, y: pageH/2 - 75, w: 150, h: 150, opacity: 0.1}
	case PositionCorner:
		return logoPlacement{x: pageW - 70, y: 20, w: 50, h: 50, opacity: 1}
	default:
		return logoPlacement{x: 20, y: 20, w: 50, h: 50, opacity: 1}
	}
}

// addLogo dibuja el logo en la página actual. Una imagen inválida o de un
// formato no soportado se ignora: el certificado vale más que el logo.
func addLogo(doc *gofpdf.Fpdf, opts LogoOptions) {
	if !opts.Include || opts.URL == nil || len(opts.Data) == 0 {
		return
	}

	imageType := imageTypeFor(opts.ContentType, opts.Data)
	if imageType == "" {
		return
	}

	pageW, pageH := doc.GetPageSize()
	placement := placementFor(opts.Position, pageW, pageH)

	name := "logo-" + string(opts.Position)
	doc.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(opts.Data))
	if doc.Err() {
		// El error del renderizador es pegajoso; sin limpiarlo el resto
		// del documento fallaría por una imagen rota.
		doc.ClearError()
		return
	}

	if placement.opacity < 1 {
		doc.SetAlpha(placement.opacity, "Normal")
		defer doc.SetAlpha(1, "Normal")
	}
	doc.ImageOptions(name, placement.x, placement.y, placement.w, placement.h, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
}

// imageTypeFor valida los bytes y devuelve el tipo que entiende el
// renderizador; cadena vacía si la imagen no sirve.
func imageTypeFor(contentType string, data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	switch format {
	case "png":
		return "PNG"
	case "jpeg":
		return "JPG"
	case "gif":
		return "GIF"
	}

	switch strings.ToLower(contentType) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}
