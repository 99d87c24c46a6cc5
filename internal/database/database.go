package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

var defaultQuotes = []entities.DailyQuote{
	{Quote: "Um leitor vive mil vidas antes de morrer. O homem que nunca lê vive apenas uma.", Author: "George R.R. Martin", Book: "A Dança dos Dragões"},
	{Quote: "Os livros são os mais silenciosos e constantes amigos; são os conselheiros mais acessíveis e os professores mais pacientes.", Author: "Charles W. Eliot"},
	{Quote: "Não existe nenhum problema que a leitura não resolva.", Author: "Montesquieu"},
	{Quote: "A leitura é uma fonte inesgotável de prazer, mas por incrível que pareça, a quase totalidade, não sente sede.", Author: "Carlos Drummond de Andrade"},
	{Quote: "Livros não mudam o mundo, quem muda o mundo são as pessoas. Os livros só mudam as pessoas.", Author: "Mário Quintana"},
	{Quote: "A literatura é a imortalidade da fala.", Author: "August Wilhelm Schlegel"},
	{Quote: "Ler é sonhar pela mão de outrem.", Author: "Fernando Pessoa"},
	{Quote: "Há crimes piores que queimar livros. Um deles é não os ler.", Author: "Ray Bradbury", Book: "Fahrenheit 451"},
	{Quote: "Quando você vende um homem um livro, você não vende apenas doze onças de papel e tinta e cola - você vende uma vida inteira.", Author: "Christopher Morley"},
	{Quote: "O paraíso deve ser uma espécie de biblioteca.", Author: "Jorge Luis Borges"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.DiaryEntry{},
		&entities.Note{},
		&entities.DailyQuote{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	// Seed the literary quotes shown on the dashboard
	if err := database.seedQuotes(); err != nil {
		return nil, fmt.Errorf("failed to seed quotes: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedQuotes inserts the default quotes once, on an empty table.
func (d *Database) seedQuotes() error {
	var count int64
	if err := d.DB.Model(&entities.DailyQuote{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, quote := range defaultQuotes {
		q := quote
		if err := d.DB.Create(&q).Error; err != nil {
			return fmt.Errorf("failed to create quote by %s: %w", q.Author, err)
		}
	}
	log.Printf("Seeded %d literary quotes", len(defaultQuotes))
	return nil
}
