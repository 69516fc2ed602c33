package repository_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/easyshop/easyshop-api/internal/models"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCategoryRepo(db)
	ctx := t.Context()

	t.Run("GetAll", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, name, description FROM categories ORDER BY id`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(query).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
					AddRow(int64(1), "Electronics", "Gadgets").
					AddRow(int64(2), "Fashion", ""))

			// Act
			categories, err := repo.GetAll(ctx)

			// Assert
			require.NoError(t, err)
			require.Len(t, categories, 2)
			assert.Equal(t, "Electronics", categories[0].Name)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(query).WillReturnError(errors.New("boom"))

			// Act
			categories, err := repo.GetAll(ctx)

			// Assert
			require.Error(t, err)
			assert.Nil(t, categories)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetByID", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, name, description FROM categories WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(query).
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(int64(1), "Electronics", "Gadgets"))

			// Act
			category, err := repo.GetByID(ctx, 1)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, &models.Category{ID: 1, Name: "Electronics", Description: "Gadgets"}, category)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(query).
				WithArgs(int64(9)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

			// Act
			category, err := repo.GetByID(ctx, 9)

			// Assert
			assert.Nil(t, category)
			require.ErrorIs(t, err, repository.ErrCategoryNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Create", func(t *testing.T) {
		// Arrange
		query := regexp.QuoteMeta(`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`)
		category := &models.Category{Name: "Books", Description: "Paper"}

		mock.ExpectQuery(query).
			WithArgs("Books", "Paper").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

		// Act
		err := repo.Create(ctx, category)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(5), category.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update", func(t *testing.T) {
		query := regexp.QuoteMeta(`UPDATE categories SET name = $1, description = $2 WHERE id = $3`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(query).WithArgs("Books", "Ink", int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.Update(ctx, &models.Category{ID: 5, Name: "Books", Description: "Ink"})

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(query).WithArgs("Books", "Ink", int64(6)).WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.Update(ctx, &models.Category{ID: 6, Name: "Books", Description: "Ink"})

			// Assert
			require.ErrorIs(t, err, repository.ErrCategoryNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Delete", func(t *testing.T) {
		query := regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(query).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.Delete(ctx, 5)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Still Referenced", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(query).WithArgs(int64(1)).WillReturnError(&pq.Error{Code: "23503"})

			// Act
			err := repo.Delete(ctx, 1)

			// Assert
			require.ErrorIs(t, err, repository.ErrCategoryInUse)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(query).WithArgs(int64(77)).WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.Delete(ctx, 77)

			// Assert
			require.ErrorIs(t, err, repository.ErrCategoryNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
