package main

import (
	"context"
	"flag"
	"log"
	"time"

	"sequencer/pkg/config"
	"sequencer/pkg/database/postgresql"
	"sequencer/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runTypes := flag.Bool("types", false, "Наполнить справочник типов документов")
	runAdmin := flag.Bool("admin", false, "Создать администратора и демо-департамент с потоком нумерации")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -types -admin)")

	flag.Parse()

	if !*runTypes && !*runAdmin && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -types")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runTypes {
		seeders.SeedDocumentTypes(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		// Демо-поток нумерации зависит от справочника типов.
		seeders.SeedAdmin(dbPool, time.Now().Year())
		log.Println("======================================================")
	}

	log.Println("🏁 Наполнение БД завершено.")
}
