package repository

import (
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllPrograms() ([]*domain.Program, error) {
	query := `
		SELECT id, code, title, rating, created_at, version FROM programs ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]*domain.Program, 0)
	for rows.Next() {
		program := &domain.Program{}
		dst := []any{&program.ID, &program.Code, &program.Title, &program.Rating, &program.CreatedAt, &program.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *Repository) GetProgramByCode(code string) (*domain.Program, error) {
	query := `
		SELECT id, title, rating, created_at, version
		FROM programs WHERE code = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	program := &domain.Program{
		Code: code,
	}

	dst := []any{&program.ID, &program.Title, &program.Rating, &program.CreatedAt, &program.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, code).Scan(dst...); err != nil {
		return nil, err
	}

	return program, nil
}

func (r *Repository) CreateProgram(program *domain.Program) error {
	query := `
		INSERT INTO programs (code, title, rating)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{program.Code, program.Title, program.Rating}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&program.ID, &program.CreatedAt, &program.Version); err != nil {
		return err
	}

	return nil
}

// UpdateProgram 使用 version 做乐观锁，版本不匹配时返回 sql.ErrNoRows
func (r *Repository) UpdateProgram(program *domain.Program) error {
	query := `
		UPDATE programs
		SET
			title = $1,
			rating = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING code, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{program.Title, program.Rating, program.ID, program.Version}
	dst := []any{&program.Code, &program.CreatedAt, &program.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProgram(id int64) error {
	query := `
		DELETE FROM programs WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
