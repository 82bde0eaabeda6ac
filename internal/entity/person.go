package entity

import "errors"

var ErrInvalidFamily = errors.New("titular sem nome ou CPF válido")

// Person é um beneficiário (titular ou dependente).
type Person struct {
	Name       string `json:"nome"`
	CPF        string `json:"cpf"`
	BirthDate  string `json:"data_nascimento"` // YYYY-MM-DD
	Gender     int    `json:"genero"`          // 1=Masculino, 2=Feminino
	MotherName string `json:"nome_mae"`
	Email      string `json:"email"`
}

// Normalized devolve uma cópia com nome e CPF canonizados.
func (p Person) Normalized() Person {
	p.Name = NormalizeName(p.Name)
	p.CPF = OnlyDigits(p.CPF)
	p.MotherName = NormalizeName(p.MotherName)
	return p
}

// FamilyRecord é a família resolvida de um cliente: exatamente um titular
// e zero ou mais dependentes. Transiente, escopo de um evento.
type FamilyRecord struct {
	Titular    Person
	Dependents []Person
}

// Validate rejeita a família antes de qualquer chamada remota.
func (f FamilyRecord) Validate() error {
	if f.Titular.Name == "" || !IsValidCPF(f.Titular.CPF) {
		return ErrInvalidFamily
	}
	return nil
}
