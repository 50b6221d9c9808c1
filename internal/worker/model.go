package worker

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contratos suportados no cálculo de folha.
const (
	ContractCLT = "CLT"
	ContractPJ  = "PJ"
)

// Worker representa um funcionário.
type Worker struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CPF        string    `json:"cpf"`
	Email      string    `json:"email"`
	Numero     string    `json:"numero"`
	Address    string    `json:"address"`
	Role       string    `json:"role"`
	Contract   string    `json:"contract"`
	Salario    string    `json:"salario"`
	Nascimento time.Time `json:"nascimento"`
	Admissao   time.Time `json:"admissao"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TimeLog registra um evento de ponto do funcionário.
type TimeLog struct {
	ID        uuid.UUID  `json:"id"`
	WorkerID  uuid.UUID  `json:"workerId"`
	EntryTime *time.Time `json:"entryTime,omitempty"`
	LeaveTime *time.Time `json:"leaveTime,omitempty"`
	Faltou    bool       `json:"faltou"`
	Date      time.Time  `json:"date"`
}

// Input contém os campos aceitos na criação e atualização de funcionário.
type Input struct {
	Name       string `json:"name"`
	CPF        string `json:"cpf"`
	Email      string `json:"email"`
	Numero     string `json:"numero"`
	Address    string `json:"address"`
	Role       string `json:"role"`
	Contract   string `json:"contract"`
	Salario    string `json:"salario"`
	Nascimento string `json:"nascimento"`
	Admissao   string `json:"admissao"`
	Status     string `json:"status"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate aplica as regras de campo antes de qualquer persistência.
func (in *Input) Validate() []string {
	var details []string

	if strings.TrimSpace(in.Name) == "" {
		details = append(details, "Nome é obrigatório")
	}
	if strings.TrimSpace(in.CPF) == "" {
		details = append(details, "CPF é obrigatório")
	}
	if !emailPattern.MatchString(in.Email) {
		details = append(details, "Email inválido")
	}
	if strings.TrimSpace(in.Numero) == "" {
		details = append(details, "Número é obrigatório")
	}
	if strings.TrimSpace(in.Address) == "" {
		details = append(details, "Endereço é obrigatório")
	}
	if strings.TrimSpace(in.Role) == "" {
		details = append(details, "Cargo é obrigatório")
	}
	if in.Contract != ContractCLT && in.Contract != ContractPJ {
		details = append(details, "Contrato deve ser CLT ou PJ")
	}
	if strings.TrimSpace(in.Salario) == "" {
		details = append(details, "Salário é obrigatório")
	}
	if _, err := parseDate(in.Nascimento); err != nil {
		details = append(details, "Data de nascimento inválida")
	}
	if _, err := parseDate(in.Admissao); err != nil {
		details = append(details, "Data de admissão inválida")
	}
	if in.Status != "" && in.Status != "active" && in.Status != "inactive" {
		details = append(details, "Status deve ser active ou inactive")
	}

	return details
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
