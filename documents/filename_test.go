package documents

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1742040000000)

	tests := []struct {
		name     string
		kind     Kind
		nombre   string
		apellido string
		want     string
	}{
		{
			name:     "paz y salvo with accents",
			kind:     KindPazYSalvo,
			nombre:   "Juan",
			apellido: "Pérez",
			want:     "paz-y-salvo-juan-pérez-1742040000000.pdf",
		},
		{
			name:     "transferencia",
			kind:     KindTransferencia,
			nombre:   "Ana",
			apellido: "García",
			want:     "transferencia-ana-garcía-1742040000000.pdf",
		},
		{
			name:     "compound name collapses spaces",
			kind:     KindPazYSalvo,
			nombre:   "José Luis",
			apellido: "De La Cruz",
			want:     "paz-y-salvo-josé-luis-de-la-cruz-1742040000000.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.kind, tt.nombre, tt.apellido, at)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameUsesMilliseconds(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	got := Filename(KindPazYSalvo, "Juan", "Pérez", at)
	assert.Contains(t, got, fmt.Sprintf("%d", at.UnixMilli()))
}
