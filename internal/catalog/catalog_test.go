package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "bookhub.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleBooks() []models.Book {
	return []models.Book{
		{ID: 1, Title: "Inferno", Author: "Dan Brown", Genre: "Thriller", Year: 2013, Bestseller: true, Description: "Robert Langdon em Florença.", Rating: 4.1},
		{ID: 2, Title: "O Código Da Vinci", Author: "Dan Brown", Genre: "Thriller", Year: 2003, Bestseller: true, Rating: 4.3},
		{ID: 3, Title: "It: A Coisa", Author: "Stephen King", Genre: "Terror", Year: 1986, Bestseller: true, Rating: 4.5},
		{ID: 4, Title: "Dom Casmurro", Author: "Machado de Assis", Genre: "Literatura Brasileira", Year: 1899, Rating: 4.6},
		{ID: 5, Title: "O Iluminado", Author: "Stephen King", Genre: "Terror", Year: 1977, Bestseller: true, Rating: 4.7},
	}
}

func seededRepo(t *testing.T) *Repo {
	t.Helper()
	repo := NewRepo(openTestDB(t))
	n, err := repo.Upsert(context.Background(), sampleBooks())
	require.NoError(t, err)
	require.Equal(t, 5, n)
	return repo
}
