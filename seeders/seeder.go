package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sequencer/pkg/utils"
)

// SeedDocumentTypes наполняет справочник типов документов.
func SeedDocumentTypes(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения типов документов...")

	for _, name := range []string{"Исходящее письмо", "Приказ", "Справка", "Доверенность"} {
		if err := seedDocumentType(ctx, db, name); err != nil {
			log.Fatalf("❌ Ошибка наполнения типов документов: %v", err)
		}
	}
	log.Println("✅ Наполнение типов документов завершено!")
}

func seedDocumentType(ctx context.Context, db *pgxpool.Pool, name string) error {
	var id uuid.UUID
	err := db.QueryRow(ctx, "SELECT id FROM document_types WHERE name = $1", name).Scan(&id)
	if err == nil {
		log.Printf("  - Тип документа '%s' уже существует. Пропускаем.", name)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке типа документа: %w", err)
	}

	log.Printf("  - Создание типа документа '%s'...", name)
	_, err = db.Exec(ctx,
		"INSERT INTO document_types (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
		uuid.New(), name)
	return err
}

// SeedAdmin создаёт демонстрационный департамент с первым
// администратором и открытым потоком нумерации на текущий год.
func SeedAdmin(db *pgxpool.Pool, year int) {
	ctx := context.Background()
	log.Println("▶️  Запуск создания администратора и демо-департамента...")

	adminID, err := seedAdminUser(ctx, db)
	if err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
	departmentID, err := seedDepartment(ctx, db, "Канцелярия")
	if err != nil {
		log.Fatalf("❌ Ошибка создания департамента: %v", err)
	}
	if err := seedMembership(ctx, db, adminID, departmentID); err != nil {
		log.Fatalf("❌ Ошибка создания членства: %v", err)
	}
	if err := seedSequence(ctx, db, departmentID, year); err != nil {
		log.Fatalf("❌ Ошибка создания потока нумерации: %v", err)
	}
	log.Println("✅ Администратор и демо-департамент готовы!")
}

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) (uuid.UUID, error) {
	login := "admin"
	var id uuid.UUID
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE login = $1", login).Scan(&id)
	if err == nil {
		log.Println("  - Пользователь 'admin' уже существует. Пропускаем.")
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("ошибка при проверке пользователя: %w", err)
	}

	log.Println("  - Создание пользователя 'admin' (пароль: admin123)...")
	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return uuid.Nil, err
	}
	id = uuid.New()
	_, err = db.Exec(ctx,
		"INSERT INTO users (id, login, fio, email, password_hash) VALUES ($1, $2, $3, $4, $5)",
		id, login, "Администратор Системы", "admin@example.org", hashed)
	return id, err
}

func seedDepartment(ctx context.Context, db *pgxpool.Pool, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		log.Printf("  - Департамент '%s' уже существует. Пропускаем.", name)
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("ошибка при проверке департамента: %w", err)
	}

	log.Printf("  - Создание департамента '%s'...", name)
	id = uuid.New()
	_, err = db.Exec(ctx, "INSERT INTO departments (id, name) VALUES ($1, $2)", id, name)
	return id, err
}

func seedMembership(ctx context.Context, db *pgxpool.Pool, userID, departmentID uuid.UUID) error {
	_, err := db.Exec(ctx,
		`INSERT INTO user_departments (id, user_id, department_id, can_administrate)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (user_id, department_id) DO UPDATE SET can_administrate = TRUE`,
		uuid.New(), userID, departmentID)
	return err
}

func seedSequence(ctx context.Context, db *pgxpool.Pool, departmentID uuid.UUID, year int) error {
	var id uuid.UUID
	err := db.QueryRow(ctx,
		"SELECT id FROM sequences WHERE department_id = $1 AND year = $2", departmentID, year).Scan(&id)
	if err == nil {
		log.Printf("  - Поток нумерации на %d год уже существует. Пропускаем.", year)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке потока нумерации: %w", err)
	}

	var documentTypeID uuid.UUID
	if err := db.QueryRow(ctx, "SELECT id FROM document_types ORDER BY name LIMIT 1").Scan(&documentTypeID); err != nil {
		return fmt.Errorf("не найден ни один тип документа, сначала запустите -types: %w", err)
	}

	log.Printf("  - Создание открытого потока нумерации на %d год...", year)
	_, err = db.Exec(ctx,
		`INSERT INTO sequences (id, department_id, document_type_id, year, sequence, can_emit)
		 VALUES ($1, $2, $3, $4, 0, TRUE)`,
		uuid.New(), departmentID, documentTypeID, year)
	return err
}
