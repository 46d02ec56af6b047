package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sequencer/internal/entities"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/utils"
)

// EmissionListParams — область видимости и фильтры одной страницы реестра.
type EmissionListParams struct {
	DepartmentID uuid.UUID
	UserID       *uuid.UUID // личный реестр: только собственные документы
	Search       utils.SearchQuery
	// Административный реестр дополнительно сопоставляет запрос
	// с именем типа документа и годом потока нумерации.
	MatchSequence bool
	Limit         uint64
	Offset        uint64
}

type EmissionRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, e entities.Emission) (*entities.Emission, error)
	FindEmission(ctx context.Context, id uuid.UUID) (*entities.Emission, error)
	UpdateEmission(ctx context.Context, id uuid.UUID, detail, destination *string, date *time.Time) (*entities.Emission, error)
	Receive(ctx context.Context, id, receiverID uuid.UUID, receivedAt time.Time) error
	Unreceive(ctx context.Context, id uuid.UUID) error
	ListByDepartment(ctx context.Context, p EmissionListParams) ([]entities.Emission, uint64, error)
	GetReportRows(ctx context.Context, departmentID uuid.UUID, search utils.SearchQuery) ([]entities.ReportRow, error)
}

type EmissionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmissionRepository(storage *pgxpool.Pool, logger *zap.Logger) EmissionRepositoryInterface {
	return &EmissionRepository{storage: storage, logger: logger}
}

const emissionColumns = `e.id, e.sequence_id, e.number, e.detail, e.destination, e.user_id, e.batch, e.date,
	e.received, e.user_received, e.date_received, e.created_at, e.updated_at,
	s.department_id, s.year, dt.name, u.fio,
	(SELECT COUNT(*) FROM emission_files f WHERE f.emission_id = e.id AND f.is_active) AS files_count`

func scanEmission(row pgx.Row) (*entities.Emission, error) {
	var e entities.Emission
	err := row.Scan(&e.ID, &e.SequenceID, &e.Number, &e.Detail, &e.Destination, &e.UserID, &e.Batch, &e.Date,
		&e.Received, &e.UserReceived, &e.DateReceived, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentID, &e.SequenceYear, &e.DocumentTypeName, &e.UserFio,
		&e.ActiveFilesCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования emission: %w", err)
	}
	return &e, nil
}

func (r *EmissionRepository) CreateInTx(ctx context.Context, tx pgx.Tx, e entities.Emission) (*entities.Emission, error) {
	query := `INSERT INTO emissions (id, sequence_id, number, detail, destination, user_id, batch, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		uuid.New(), e.SequenceID, e.Number, e.Detail, e.Destination, e.UserID, e.Batch, e.Date,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания emission: %w", err)
	}
	return &e, nil
}

func (r *EmissionRepository) FindEmission(ctx context.Context, id uuid.UUID) (*entities.Emission, error) {
	query := `SELECT ` + emissionColumns + `
		FROM emissions e
		JOIN sequences s ON s.id = e.sequence_id
		JOIN document_types dt ON dt.id = s.document_type_id
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1`
	return scanEmission(r.storage.QueryRow(ctx, query, id))
}

func (r *EmissionRepository) UpdateEmission(ctx context.Context, id uuid.UUID, detail, destination *string, date *time.Time) (*entities.Emission, error) {
	updateBuilder := sq.Update("emissions").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if detail != nil {
		updateBuilder = updateBuilder.Set("detail", *detail)
		hasChanges = true
	}
	if destination != nil {
		updateBuilder = updateBuilder.Set("destination", *destination)
		hasChanges = true
	}
	if date != nil {
		updateBuilder = updateBuilder.Set("date", *date)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindEmission(ctx, id)
	}

	query, args, err := updateBuilder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}
	var updatedID uuid.UUID
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления emission: %w", err)
	}
	return r.FindEmission(ctx, updatedID)
}

func (r *EmissionRepository) Receive(ctx context.Context, id, receiverID uuid.UUID, receivedAt time.Time) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE emissions SET received = TRUE, user_received = $2, date_received = $3, updated_at = NOW()
		 WHERE id = $1 AND received = FALSE`,
		id, receiverID, receivedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyReceived
	}
	return nil
}

func (r *EmissionRepository) Unreceive(ctx context.Context, id uuid.UUID) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE emissions SET received = FALSE, user_received = NULL, date_received = NULL, updated_at = NOW()
		 WHERE id = $1 AND received = TRUE`,
		id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotReceived
	}
	return nil
}

// searchPredicate собирает OR-комбинацию разнородных критериев:
// подстрока в detail/destination, равенство номера, равенство даты,
// и (для административного реестра) имя типа документа или год потока.
func searchPredicate(p EmissionListParams) sq.Or {
	pattern := "%" + p.Search.Raw + "%"
	or := sq.Or{
		sq.ILike{"e.detail": pattern},
		sq.ILike{"e.destination": pattern},
	}
	if p.Search.Number != nil {
		or = append(or, sq.Eq{"e.number": *p.Search.Number})
	}
	if p.Search.Date != nil {
		or = append(or, sq.Eq{"e.date": *p.Search.Date})
	}
	if p.MatchSequence {
		or = append(or, sq.ILike{"dt.name": pattern})
		if p.Search.Number != nil {
			or = append(or, sq.Eq{"s.year": *p.Search.Number})
		}
	}
	return or
}

func (r *EmissionRepository) listBuilder(p EmissionListParams, columns string) sq.SelectBuilder {
	builder := sq.Select(columns).
		From("emissions e").
		Join("sequences s ON s.id = e.sequence_id").
		Join("document_types dt ON dt.id = s.document_type_id").
		Join("users u ON u.id = e.user_id").
		Where(sq.Eq{"s.department_id": p.DepartmentID}).
		PlaceholderFormat(sq.Dollar)
	if p.UserID != nil {
		builder = builder.Where(sq.Eq{"e.user_id": *p.UserID})
	}
	if !p.Search.IsEmpty() {
		builder = builder.Where(searchPredicate(p))
	}
	return builder
}

func (r *EmissionRepository) ListByDepartment(ctx context.Context, p EmissionListParams) ([]entities.Emission, uint64, error) {
	countQuery, countArgs, err := r.listBuilder(p, "COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Emission{}, 0, nil
	}

	// Открытые документы раньше полученных, внутри — новые номера сверху.
	query, args, err := r.listBuilder(p, emissionColumns).
		OrderBy("e.received ASC", "e.number DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	emissions := make([]entities.Emission, 0)
	for rows.Next() {
		e, err := scanEmission(rows)
		if err != nil {
			return nil, 0, err
		}
		emissions = append(emissions, *e)
	}
	return emissions, total, rows.Err()
}

func (r *EmissionRepository) GetReportRows(ctx context.Context, departmentID uuid.UUID, search utils.SearchQuery) ([]entities.ReportRow, error) {
	p := EmissionListParams{DepartmentID: departmentID, Search: search, MatchSequence: true}
	builder := sq.Select(`e.number, e.detail, e.destination, e.date, dt.name, s.year,
			u.fio, e.received, ur.fio, e.date_received, e.batch`).
		From("emissions e").
		Join("sequences s ON s.id = e.sequence_id").
		Join("document_types dt ON dt.id = s.document_type_id").
		Join("users u ON u.id = e.user_id").
		LeftJoin("users ur ON ur.id = e.user_received").
		Where(sq.Eq{"s.department_id": departmentID}).
		PlaceholderFormat(sq.Dollar)
	if !search.IsEmpty() {
		builder = builder.Where(searchPredicate(p))
	}
	query, args, err := builder.OrderBy("e.received ASC", "e.number DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := make([]entities.ReportRow, 0)
	for rows.Next() {
		var row entities.ReportRow
		if err := rows.Scan(&row.Number, &row.Detail, &row.Destination, &row.Date, &row.DocumentTypeName,
			&row.SequenceYear, &row.UserFio, &row.Received, &row.ReceivedFio, &row.DateReceived, &row.Batch); err != nil {
			r.logger.Error("ошибка сканирования строки реестра", zap.Error(err))
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
