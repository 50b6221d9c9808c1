package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("folha de pagamento não encontrada")
	ErrDuplicate = errors.New("folha já processada para o período")
)

const payrollColumns = `id, employee_id, employee_name, contract, base_salary,
	overtime_hours, overtime_pay, gross_salary, benefits, inss, irrf, fgts,
	deductions, total_salary, month, year, status, processed_at, paid_at,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]Payroll, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+payrollColumns+`
		  FROM payrolls
		 ORDER BY year DESC, month DESC, employee_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listar folhas: %w", err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+payrollColumns+`
		  FROM payrolls
		 WHERE id = $1`, id)
	return scanPayroll(row)
}

func (r *Repository) ListByMonthYear(ctx context.Context, month, year int) ([]Payroll, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+payrollColumns+`
		  FROM payrolls
		 WHERE month = $1 AND year = $2
		 ORDER BY employee_name ASC`, month, year)
	if err != nil {
		return nil, fmt.Errorf("listar folhas do período: %w", err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *Repository) FindByEmployeeMonthYear(ctx context.Context, employeeID uuid.UUID, month, year int) (*Payroll, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+payrollColumns+`
		  FROM payrolls
		 WHERE employee_id = $1 AND month = $2 AND year = $3`,
		employeeID, month, year)
	return scanPayroll(row)
}

func (r *Repository) Create(ctx context.Context, calc *Calculation, month, year int) (*Payroll, error) {
	benefits, err := json.Marshal(calc.Benefits)
	if err != nil {
		return nil, fmt.Errorf("serializar benefícios: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payrolls
			(employee_id, employee_name, contract, base_salary, overtime_hours,
			 overtime_pay, gross_salary, benefits, inss, irrf, fgts, deductions,
			 total_salary, month, year, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
		RETURNING `+payrollColumns,
		calc.EmployeeID, calc.EmployeeName, calc.Contract, calc.BaseSalary,
		calc.OvertimeHours, calc.OvertimePay, calc.GrossSalary, benefits,
		calc.INSS, calc.IRRF, calc.FGTS, calc.Deductions, calc.TotalSalary,
		month, year, StatusProcessed)

	p, err := scanPayroll(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) DeleteByMonthYear(ctx context.Context, month, year int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM payrolls WHERE month = $1 AND year = $2`, month, year)
	if err != nil {
		return 0, fmt.Errorf("remover folhas do período: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE payrolls
		   SET status = $2, paid_at = now(), updated_at = now()
		 WHERE id = $1
		RETURNING `+payrollColumns, id, StatusPaid)
	return scanPayroll(row)
}

func collectPayrolls(rows pgx.Rows) ([]Payroll, error) {
	var payrolls []Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, *p)
	}
	return payrolls, rows.Err()
}

func scanPayroll(row pgx.Row) (*Payroll, error) {
	var (
		p        Payroll
		benefits []byte
		paidAt   *time.Time
	)
	err := row.Scan(&p.ID, &p.EmployeeID, &p.EmployeeName, &p.Contract,
		&p.BaseSalary, &p.OvertimeHours, &p.OvertimePay, &p.GrossSalary,
		&benefits, &p.INSS, &p.IRRF, &p.FGTS, &p.Deductions, &p.TotalSalary,
		&p.Month, &p.Year, &p.Status, &p.ProcessedAt, &paidAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ler folha: %w", err)
	}
	p.PaidAt = paidAt

	p.Benefits = []BenefitLine{}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &p.Benefits); err != nil {
			return nil, fmt.Errorf("decodificar benefícios: %w", err)
		}
	}
	return &p, nil
}
