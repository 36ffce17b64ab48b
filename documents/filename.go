package documents

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Filename arma el nombre de descarga del certificado:
// <prefijo>-<nombre>-<apellido>-<milisegundos>.pdf, todo en minúsculas y
// con los espacios colapsados a guiones.
func Filename(kind Kind, nombre, apellido string, now time.Time) string {
	prefix := "paz-y-salvo"
	if kind == KindTransferencia {
		prefix = "transferencia"
	}

	name := fmt.Sprintf("%s-%s-%s-%d.pdf", prefix, strings.TrimSpace(nombre), strings.TrimSpace(apellido), now.UnixMilli())
	return whitespaceRe.ReplaceAllString(strings.ToLower(name), "-")
}

// trimStringFields recorta espacios en todos los campos string exportados
// del struct apuntado.
func trimStringFields(v interface{}) {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return
	}
	value = value.Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
