package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "name with sex marker",
			text:   "NOMBRE SEXO H JUAN PEREZ LOPEZ DOMICILIO CALLE FALSA 123",
			want:   "JUAN PEREZ LOPEZ",
			wantOK: true,
		},
		{
			name:   "name without sex marker",
			text:   "NOMBRE MARIA GARCIA DOMICILIO AV REFORMA",
			want:   "MARIA GARCIA",
			wantOK: true,
		},
		{
			name:   "sex marker M variant",
			text:   "NOMBRE SEXO M ANA RUIZ DOMICILIO CALLE UNO",
			want:   "ANA RUIZ",
			wantOK: true,
		},
		{
			name: "missing start anchor",
			text: "JUAN PEREZ DOMICILIO CALLE FALSA",
		},
		{
			name: "missing end anchor",
			text: "NOMBRE JUAN PEREZ CALLE FALSA",
		},
		{
			name: "empty capture",
			text: "NOMBRE DOMICILIO CALLE FALSA",
		},
		{
			name: "empty input",
			text: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractName(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "fused key anchor",
			text:   "DOMICILIO CALLE FALSA 123 COL CENTRO CLAVEDEELECTOR ABCD123456 CURP",
			want:   "CALLE FALSA 123 COL CENTRO",
			wantOK: true,
		},
		{
			name:   "split key anchor",
			text:   "DOMICILIO AV JUAREZ 45 CLAVE DE ELECTOR PQRS0099 CURP",
			want:   "AV JUAREZ 45",
			wantOK: true,
		},
		{
			name:   "commas kept in address",
			text:   "DOMICILIO CALLE 5, INT 2 CLAVEDEELECTOR AB CURP",
			want:   "CALLE 5, INT 2",
			wantOK: true,
		},
		{
			name: "missing key anchor",
			text: "DOMICILIO CALLE FALSA 123",
		},
		{
			name: "missing address anchor",
			text: "CALLE FALSA CLAVEDEELECTOR AB CURP",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAddress(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "fused anchor",
			text:   "CLAVEDEELECTOR ABCD123456 CURP PELJ800101",
			want:   "ABCD123456",
			wantOK: true,
		},
		{
			name:   "split anchor with internal spaces",
			text:   "CLAVE DE ELECTOR PQRS 0099 CURP X",
			want:   "PQRS0099",
			wantOK: true,
		},
		{
			name: "missing curp anchor",
			text: "CLAVEDEELECTOR ABCD123456",
		},
		{
			name: "empty capture",
			text: "CLAVEDEELECTOR CURP X",
		},
		{
			name: "no anchors at all",
			text: "NOMBRE JUAN DOMICILIO CALLE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractKey(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractorsNeverPanicOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"NOMBRE",
		"DOMICILIO DOMICILIO DOMICILIO",
		"CLAVEDEELECTORCURP",
		"NOMBREDOMICILIOCLAVEDEELECTORCURP",
		"\x00\xff garbage \n\t",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ExtractName(in)
			ExtractAddress(in)
			ExtractKey(in)
		})
	}
}
