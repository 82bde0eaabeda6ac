package usecase

import (
	"fmt"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
)

// ResolveFamily particiona os contatos do cadastro expandido em exatamente
// um titular (contato principal) e zero ou mais dependentes. Sem contato
// principal — webhook que chegou antes do cadastro ser populado — o payload
// do próprio evento vira o titular. Dependente sem CPF utilizável é
// descartado com aviso, não com falha: ele não pode ser registrado na
// MEDICAR de qualquer forma.
func ResolveFamily(client *tenex.ClientRecord, fallback entity.Person) (entity.FamilyRecord, []string, error) {
	var family entity.FamilyRecord
	var warnings []string

	titularFound := false
	if client != nil {
		for _, contato := range client.Contatos {
			p := entity.Person{
				Name:       contato.Nome,
				CPF:        contato.CPF,
				BirthDate:  contato.DataNascimento,
				Gender:     contato.Sexo,
				MotherName: contato.NomeMae,
				Email:      contato.Email,
			}.Normalized()

			if contato.Principal {
				if !titularFound {
					family.Titular = p
					titularFound = true
				}
				continue
			}

			if !entity.IsValidCPF(p.CPF) {
				warnings = append(warnings, fmt.Sprintf("dependente %q sem CPF utilizável, descartado", p.Name))
				continue
			}
			family.Dependents = append(family.Dependents, p)
		}
	}

	if !titularFound {
		family.Titular = fallback.Normalized()
	}

	family.Dependents = dedupeByCPF(family.Dependents)

	if err := family.Validate(); err != nil {
		return entity.FamilyRecord{}, warnings, err
	}
	return family, warnings, nil
}

// dedupeByCPF mantém a primeira ocorrência de cada CPF. A grade de
// dependentes da MEDICAR é chaveada por CPF; enviar repetido duplicaria.
func dedupeByCPF(deps []entity.Person) []entity.Person {
	if len(deps) < 2 {
		return deps
	}

	seen := make(map[string]bool, len(deps))
	out := deps[:0]
	for _, dep := range deps {
		if seen[dep.CPF] {
			continue
		}
		seen[dep.CPF] = true
		out = append(out, dep)
	}
	return out
}
