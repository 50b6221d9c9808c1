package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound é retornado quando nenhum funcionário é encontrado.
	ErrNotFound = errors.New("funcionário não encontrado")
	// ErrDuplicateCPF indica violação de unicidade de CPF.
	ErrDuplicateCPF = errors.New("CPF já cadastrado")
	// ErrNoOpenLog indica que não há registro de ponto aberto para fechar.
	ErrNoOpenLog = errors.New("nenhum registro de ponto aberto")
)

const workerColumns = `id, name, cpf, email, numero, address, role, contract, salario, nascimento, admissao, status, created_at, updated_at`

// Repository provê acesso ao armazenamento de funcionários.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria um novo repositório de funcionários.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List devolve funcionários, opcionalmente filtrados por status.
func (r *Repository) List(ctx context.Context, status string) ([]Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers ORDER BY name`
	args := []any{}
	if status != "" {
		query = `SELECT ` + workerColumns + ` FROM workers WHERE status = $1 ORDER BY name`
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// GetByID busca funcionário pelo identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1`, id)
	return scanWorker(row)
}

// Create insere um novo funcionário e devolve os dados persistidos.
func (r *Repository) Create(ctx context.Context, w *Worker) (*Worker, error) {
	const query = `
        INSERT INTO workers (name, cpf, email, numero, address, role, contract, salario, nascimento, admissao, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + workerColumns

	row := r.pool.QueryRow(ctx, query,
		w.Name, w.CPF, w.Email, w.Numero, w.Address, w.Role,
		w.Contract, w.Salario, w.Nascimento, w.Admissao, w.Status,
	)

	created, err := scanWorker(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

// Update substitui os campos do funcionário.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, w *Worker) (*Worker, error) {
	const query = `
        UPDATE workers
        SET name = $2, cpf = $3, email = $4, numero = $5, address = $6, role = $7,
            contract = $8, salario = $9, nascimento = $10, admissao = $11, status = $12,
            updated_at = now()
        WHERE id = $1
        RETURNING ` + workerColumns

	row := r.pool.QueryRow(ctx, query, id,
		w.Name, w.CPF, w.Email, w.Numero, w.Address, w.Role,
		w.Contract, w.Salario, w.Nascimento, w.Admissao, w.Status,
	)

	updated, err := scanWorker(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return updated, nil
}

// Delete remove o funcionário.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLog registra entrada ou falta para o funcionário.
func (r *Repository) AddLog(ctx context.Context, workerID uuid.UUID, entryTime *time.Time, faltou bool) (*TimeLog, error) {
	const query = `
        INSERT INTO worker_logs (worker_id, entry_time, faltou, date)
        VALUES ($1, $2, $3, now())
        RETURNING id, worker_id, entry_time, leave_time, faltou, date
    `

	row := r.pool.QueryRow(ctx, query, workerID, entryTime, faltou)
	return scanLog(row)
}

// CloseOpenLog fecha o último registro de ponto sem horário de saída.
func (r *Repository) CloseOpenLog(ctx context.Context, workerID uuid.UUID, leaveTime time.Time) (*TimeLog, error) {
	const query = `
        UPDATE worker_logs
        SET leave_time = $2
        WHERE id = (
            SELECT id FROM worker_logs
            WHERE worker_id = $1 AND leave_time IS NULL AND NOT faltou
            ORDER BY date DESC
            LIMIT 1
        )
        RETURNING id, worker_id, entry_time, leave_time, faltou, date
    `

	row := r.pool.QueryRow(ctx, query, workerID, leaveTime)
	logEntry, err := scanLog(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoOpenLog
		}
		return nil, err
	}
	return logEntry, nil
}

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(&w.ID, &w.Name, &w.CPF, &w.Email, &w.Numero, &w.Address, &w.Role,
		&w.Contract, &w.Salario, &w.Nascimento, &w.Admissao, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func scanLog(row pgx.Row) (*TimeLog, error) {
	var l TimeLog
	err := row.Scan(&l.ID, &l.WorkerID, &l.EntryTime, &l.LeaveTime, &l.Faltou, &l.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCPF
	}
	return err
}
