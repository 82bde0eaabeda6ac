package entity

import "errors"

var ErrPlanUnavailable = errors.New("nenhum plano encontrado na TENEX")

// MappedProduct é o par produto/versão do plano na MEDICAR.
type MappedProduct struct {
	CodPro string `json:"codpro"`
	Versao string `json:"versao"`
}
