package entity

import "strings"

// OnlyDigits remove tudo que não for dígito (CPF, CNPJ, telefone).
// Todas as buscas e comparações de CPF passam por aqui.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// NormalizeName canoniza nomes para o formato que a MEDICAR espera:
// maiúsculas ASCII, sem acentos, espaços colapsados.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, ch := range strings.ToUpper(s) {
		if r, ok := asciiFold[ch]; ok {
			ch = r
		}
		if ch == ' ' || ch == '\t' {
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		if ch < 128 {
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}

var asciiFold = map[rune]rune{
	'Á': 'A', 'À': 'A', 'Â': 'A', 'Ã': 'A', 'Ä': 'A',
	'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
	'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
	'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Õ': 'O', 'Ö': 'O',
	'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
	'Ç': 'C', 'Ñ': 'N',
}

// IsValidCPF valida só o formato (11 dígitos), não o dígito verificador.
// O CPF já chegou validado pela TENEX; aqui o risco é campo vazio ou lixo.
func IsValidCPF(cpf string) bool {
	return len(OnlyDigits(cpf)) == 11
}
