package services

import (
	"strings"

	"github.com/corfutbolocanero/roster-service/models"
)

// LogoResolver decide qué logo acompaña a cada documento. Los certificados
// de paz y salvo llevan el escudo de la escuela del jugador y las
// transferencias llevan el logo de la corporación.
type LogoResolver struct {
	corporationLogoURL string
}

func NewLogoResolver(corporationLogoURL string) *LogoResolver {
	return &LogoResolver{corporationLogoURL: corporationLogoURL}
}

// ResolveSchoolLogo devuelve la URL del logo de la escuela, o nil si la
// escuela no existe o no tiene logo cargado. Nunca falla: un documento sin
// logo sigue siendo válido.
func (r *LogoResolver) ResolveSchoolLogo(school *models.School) *string {
	if school == nil || school.LogoURL == nil {
		return nil
	}
	url := strings.TrimSpace(*school.LogoURL)
	if url == "" {
		return nil
	}
	return &url
}

// ResolveUserSchoolLogo resuelve el logo a partir de la escuela asociada al
// usuario autenticado.
func (r *LogoResolver) ResolveUserSchoolLogo(user *models.User) *string {
	if user == nil {
		return nil
	}
	return r.ResolveSchoolLogo(user.Escuela)
}

// CorporationLogoURL devuelve la URL del logo institucional usado en los
// certificados de transferencia.
func (r *LogoResolver) CorporationLogoURL() string {
	return r.corporationLogoURL
}
