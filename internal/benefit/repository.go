package benefit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrTypeNotFound é retornado quando o tipo de benefício não existe.
	ErrTypeNotFound = errors.New("tipo de benefício não encontrado")
	// ErrBenefitNotFound é retornado quando o vínculo não existe.
	ErrBenefitNotFound = errors.New("benefício não encontrado")
	// ErrDuplicateBenefit indica benefício ativo duplicado para o funcionário.
	ErrDuplicateBenefit = errors.New("benefício ativo duplicado")
)

const typeColumns = `id, name, description, has_discount, discount_percentage, default_value, status, created_at, updated_at`

// TypeRepository provê acesso aos tipos de benefício.
type TypeRepository struct {
	pool *pgxpool.Pool
}

// NewTypeRepository cria o repositório de tipos de benefício.
func NewTypeRepository(pool *pgxpool.Pool) *TypeRepository {
	return &TypeRepository{pool: pool}
}

// List devolve todos os tipos ordenados por nome.
func (r *TypeRepository) List(ctx context.Context) ([]BenefitType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+typeColumns+` FROM benefit_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []BenefitType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

// GetByID busca o tipo pelo identificador.
func (r *TypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*BenefitType, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+typeColumns+` FROM benefit_types WHERE id = $1`, id)
	return scanType(row)
}

// Create insere um novo tipo de benefício.
func (r *TypeRepository) Create(ctx context.Context, t *BenefitType) (*BenefitType, error) {
	const query = `
        INSERT INTO benefit_types (name, description, has_discount, discount_percentage, default_value, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + typeColumns

	row := r.pool.QueryRow(ctx, query, t.Name, t.Description, t.HasDiscount, t.DiscountPercentage, t.DefaultValue, t.Status)
	return scanType(row)
}

// Update substitui os campos do tipo de benefício.
func (r *TypeRepository) Update(ctx context.Context, id uuid.UUID, t *BenefitType) (*BenefitType, error) {
	const query = `
        UPDATE benefit_types
        SET name = $2, description = $3, has_discount = $4, discount_percentage = $5,
            default_value = $6, status = $7, updated_at = now()
        WHERE id = $1
        RETURNING ` + typeColumns

	row := r.pool.QueryRow(ctx, query, id, t.Name, t.Description, t.HasDiscount, t.DiscountPercentage, t.DefaultValue, t.Status)
	return scanType(row)
}

// SetStatus atualiza apenas o status do tipo.
func (r *TypeRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*BenefitType, error) {
	const query = `
        UPDATE benefit_types SET status = $2, updated_at = now()
        WHERE id = $1
        RETURNING ` + typeColumns

	row := r.pool.QueryRow(ctx, query, id, status)
	return scanType(row)
}

// Delete remove o tipo de benefício.
func (r *TypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM benefit_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func scanType(row pgx.Row) (*BenefitType, error) {
	var t BenefitType
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.HasDiscount, &t.DiscountPercentage,
		&t.DefaultValue, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

const employeeBenefitColumns = `
    eb.id, eb.employee_id, eb.benefit_type_id, eb.value, eb.start_date, eb.end_date, eb.status,
    eb.created_at, eb.updated_at,
    bt.id, bt.name, bt.description, bt.has_discount, bt.discount_percentage, bt.default_value,
    bt.status, bt.created_at, bt.updated_at`

// EmployeeRepository provê acesso aos vínculos funcionário-benefício.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository cria o repositório de vínculos.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// List devolve todos os vínculos com o tipo carregado.
func (r *EmployeeRepository) List(ctx context.Context) ([]EmployeeBenefit, error) {
	const query = `
        SELECT ` + employeeBenefitColumns + `
        FROM employee_benefits eb
        JOIN benefit_types bt ON bt.id = eb.benefit_type_id
        ORDER BY eb.created_at DESC`

	return r.queryMany(ctx, query)
}

// ListByEmployee devolve os vínculos de um funcionário.
func (r *EmployeeRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeBenefit, error) {
	const query = `
        SELECT ` + employeeBenefitColumns + `
        FROM employee_benefits eb
        JOIN benefit_types bt ON bt.id = eb.benefit_type_id
        WHERE eb.employee_id = $1
        ORDER BY eb.created_at DESC`

	return r.queryMany(ctx, query, employeeID)
}

// GetByID busca um vínculo pelo identificador.
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	const query = `
        SELECT ` + employeeBenefitColumns + `
        FROM employee_benefits eb
        JOIN benefit_types bt ON bt.id = eb.benefit_type_id
        WHERE eb.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanEmployeeBenefit(row)
}

// HasActive informa se o funcionário já possui o benefício ativo.
func (r *EmployeeRepository) HasActive(ctx context.Context, employeeID, benefitTypeID uuid.UUID) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM employee_benefits
            WHERE employee_id = $1 AND benefit_type_id = $2 AND status = 'active'
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, employeeID, benefitTypeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create insere um novo vínculo; o índice parcial de unicidade barra duplicados
// ativos mesmo sob escrita concorrente.
func (r *EmployeeRepository) Create(ctx context.Context, eb *EmployeeBenefit) (*EmployeeBenefit, error) {
	const query = `
        INSERT INTO employee_benefits (employee_id, benefit_type_id, value, start_date, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, eb.EmployeeID, eb.BenefitTypeID, eb.Value, eb.StartDate, eb.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateBenefit
		}
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Update substitui valor, data de início e status do vínculo.
func (r *EmployeeRepository) Update(ctx context.Context, id uuid.UUID, eb *EmployeeBenefit) (*EmployeeBenefit, error) {
	const query = `
        UPDATE employee_benefits
        SET value = $2, start_date = $3, updated_at = now()
        WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, eb.Value, eb.StartDate)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrBenefitNotFound
	}

	return r.GetByID(ctx, id)
}

// Deactivate encerra o vínculo com a data corrente.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	const query = `
        UPDATE employee_benefits
        SET status = 'inactive', end_date = now(), updated_at = now()
        WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrBenefitNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete remove o vínculo.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employee_benefits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBenefitNotFound
	}
	return nil
}

func (r *EmployeeRepository) queryMany(ctx context.Context, query string, args ...any) ([]EmployeeBenefit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benefits []EmployeeBenefit
	for rows.Next() {
		eb, err := scanEmployeeBenefit(rows)
		if err != nil {
			return nil, err
		}
		benefits = append(benefits, *eb)
	}
	return benefits, rows.Err()
}

func scanEmployeeBenefit(row pgx.Row) (*EmployeeBenefit, error) {
	var eb EmployeeBenefit
	err := row.Scan(
		&eb.ID, &eb.EmployeeID, &eb.BenefitTypeID, &eb.Value, &eb.StartDate, &eb.EndDate, &eb.Status,
		&eb.CreatedAt, &eb.UpdatedAt,
		&eb.BenefitType.ID, &eb.BenefitType.Name, &eb.BenefitType.Description,
		&eb.BenefitType.HasDiscount, &eb.BenefitType.DiscountPercentage, &eb.BenefitType.DefaultValue,
		&eb.BenefitType.Status, &eb.BenefitType.CreatedAt, &eb.BenefitType.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBenefitNotFound
		}
		return nil, err
	}
	return &eb, nil
}
